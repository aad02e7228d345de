// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command bucketsd serves observable buckets over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/buckets/internal/api"
	"github.com/ManuGH/buckets/internal/bucket"
	"github.com/ManuGH/buckets/internal/catalog"
	"github.com/ManuGH/buckets/internal/config"
	"github.com/ManuGH/buckets/internal/fetch"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/telemetry"
	"github.com/ManuGH/buckets/internal/topic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "buckets",
		Version: version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	if path == "" {
		path = config.ParseString(config.EnvPrefix+"CONFIG", "")
	}

	loader := config.NewLoader(path, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.Log.Level,
		Service: cfg.Log.Service,
		Version: cfg.Version,
	})
	logger = xglog.WithComponent("daemon")
	logger.Info().
		Str(xglog.FieldEvent, "daemon.starting").
		Str("version", version).
		Str("commit", commit).
		Str("config_path", path).
		Int("buckets", len(cfg.Buckets)).
		Msg("starting bucketsd")

	if err := run(ctx, loader, cfg); err != nil {
		logger.Fatal().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("bucketsd stopped with error")
	}
	logger.Info().Str(xglog.FieldEvent, "daemon.stopped").Msg("bucketsd stopped")
}

// run wires the service and blocks until ctx ends or a component fails.
func run(ctx context.Context, loader *config.Loader, cfg config.AppConfig) error {
	logger := xglog.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("tracer shutdown failed")
		}
	}()

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	holder := config.NewHolder(cfg, loader)
	if err := holder.StartWatcher(ctx); err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	reloads := make(chan config.AppConfig, 1)
	holder.RegisterListener(reloads)

	ln, err := net.Listen("tcp", cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.ListenAddr, err)
	}
	srv := &http.Server{
		Handler:           api.New(cat, apiConfig(cfg, tp.Enabled())).Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str(xglog.FieldEvent, "http.listening").
			Str("addr", ln.Addr().String()).
			Msg("serving HTTP")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return cat.Run(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case next := <-reloads:
				if !xglog.SetLevel(next.Log.Level) {
					logger.Warn().Str("level", next.Log.Level).Msg("reloaded log level not applied")
				}
			}
		}
	})
	return g.Wait()
}

func buildCatalog(cfg config.AppConfig) (*catalog.Catalog, error) {
	policy, _ := topic.ParsePolicy(cfg.Broker.Policy)
	reg := topic.New(
		topic.WithPolicy(policy),
		topic.WithLogger(xglog.WithComponent("topic")),
	)

	f := fetch.New(
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithRate(rate.Limit(cfg.Fetch.Rate), cfg.Fetch.Burst),
		fetch.WithUserAgent(cfg.Fetch.UserAgent+"/"+version),
	)

	cat := catalog.New(reg, bucket.NewSequence(), f, xglog.Base())
	for _, bc := range cfg.Buckets {
		if _, err := cat.Create(sourceFromConfig(bc)); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bc.Name, err)
		}
	}
	return cat, nil
}

func sourceFromConfig(bc config.BucketConfig) catalog.Source {
	return catalog.Source{
		Name:  bc.Name,
		Items: bc.Items,
		Remote: fetch.Source{
			URL:    bc.URL,
			Params: bc.Params,
			Path:   bc.Path,
		},
		Interval:  bc.Interval,
		KeepZero:  bc.KeepZero,
		EventTaps: bc.EventTaps,
	}
}

func apiConfig(cfg config.AppConfig, tracing bool) api.Config {
	out := api.Config{
		RateLimit:        cfg.Server.RateLimit,
		RateWindow:       cfg.Server.RateWindow,
		RefreshRateLimit: cfg.Server.RefreshRateLimit,
		StreamBuffer:     cfg.Stream.Buffer,
		StreamHeartbeat:  cfg.Stream.Heartbeat,
		Version:          cfg.Version,
	}
	if tracing {
		out.TracingService = cfg.Log.Service
	}
	return out
}

func telemetryConfig(cfg config.AppConfig) telemetry.Config {
	return telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Log.Service,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	}
}
