// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package middleware holds the HTTP ingress middleware of the buckets API.
package middleware

import (
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical ingress middleware stack.
type StackConfig struct {
	EnableMetrics bool
	EnableLogging bool
	// RateLimit applies to every route of the router.
	RateLimit RateLimitConfig
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	if cfg.EnableMetrics {
		r.Use(Metrics)
	}
	if cfg.EnableLogging {
		r.Use(AccessLog)
	}
	r.Use(RateLimit(cfg.RateLimit))
}
