// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the catalog's buckets over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/ManuGH/buckets/internal/api/middleware"
	"github.com/ManuGH/buckets/internal/catalog"
	"github.com/ManuGH/buckets/internal/health"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	defaultStreamBuffer = 16
	maxBodyBytes        = 1 << 20
)

// Config tunes the HTTP surface.
type Config struct {
	RateLimit        int
	RateWindow       time.Duration
	RefreshRateLimit int

	StreamBuffer    int
	StreamHeartbeat time.Duration

	// TracingService names server spans; empty disables HTTP tracing.
	TracingService string

	// Version is reported by /healthz.
	Version string
}

// Server serves the catalog.
type Server struct {
	catalog *catalog.Catalog
	health  *health.Manager
	cfg     Config
	logger  zerolog.Logger
	handler http.Handler
}

// New builds the router for cat.
func New(cat *catalog.Catalog, cfg Config) *Server {
	if cfg.StreamBuffer <= 0 {
		cfg.StreamBuffer = defaultStreamBuffer
	}
	s := &Server{
		catalog: cat,
		cfg:     cfg,
		health:  health.NewManager(cfg.Version),
		logger:  xglog.WithComponent("api"),
	}
	s.health.RegisterChecker(health.NewSourceChecker(cat))

	var h http.Handler = s.routes()
	if cfg.TracingService != "" {
		h = middleware.OTelHTTP(cfg.TracingService)(h)
	}
	s.handler = h
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics: true,
		EnableLogging: true,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/buckets", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestLimit: s.cfg.RateLimit,
			WindowSize:   s.cfg.RateWindow,
		}))

		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleSerialize)
			r.Get("/items", s.handleItems)
			r.Post("/items", s.handleAdd)
			r.Delete("/items", s.handleClear)
			r.Delete("/items/{index}", s.handleRemove)
			r.Get("/stream", s.handleStream)
			r.With(middleware.RateLimit(middleware.RateLimitConfig{
				RequestLimit: s.cfg.RefreshRateLimit,
				WindowSize:   s.cfg.RateWindow,
			})).Post("/refresh", s.handleRefresh)
		})
	})
	return r
}
