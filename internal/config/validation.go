// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"

	"github.com/ManuGH/buckets/internal/topic"
	"github.com/ManuGH/buckets/internal/validate"
	"github.com/rs/zerolog"
)

// Validate checks cfg and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		v.AddError("log.level", "unknown log level", cfg.Log.Level)
	}

	v.ListenAddr("server.listen_addr", cfg.Server.ListenAddr)
	v.NonNegative("server.rate_limit", cfg.Server.RateLimit)
	v.NonNegative("server.refresh_rate_limit", cfg.Server.RefreshRateLimit)
	if cfg.Server.RateLimit > 0 || cfg.Server.RefreshRateLimit > 0 {
		v.MinDuration("server.rate_window", cfg.Server.RateWindow, 1)
	}

	if _, ok := topic.ParsePolicy(cfg.Broker.Policy); !ok {
		v.OneOf("broker.policy", cfg.Broker.Policy, []string{"isolate", "propagate"})
	}

	v.MinDuration("fetch.timeout", cfg.Fetch.Timeout, 1)
	if cfg.Fetch.Rate < 0 {
		v.AddError("fetch.rate", "must not be negative", cfg.Fetch.Rate)
	}
	v.NonNegative("fetch.burst", cfg.Fetch.Burst)

	v.Range("stream.buffer", cfg.Stream.Buffer, 1, 4096)
	v.MinDuration("stream.heartbeat", cfg.Stream.Heartbeat, 0)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
	}
	v.FloatRange("telemetry.sampling_rate", cfg.Telemetry.SamplingRate, 0, 1)

	seen := make(map[string]struct{}, len(cfg.Buckets))
	for i, b := range cfg.Buckets {
		field := fmt.Sprintf("buckets[%d]", i)
		name := strings.TrimSpace(b.Name)
		if name == "" {
			v.AddError(field+".name", "cannot be empty", b.Name)
		} else if _, dup := seen[name]; dup {
			v.AddError(field+".name", "duplicate bucket name", b.Name)
		}
		seen[name] = struct{}{}

		if b.URL != "" {
			v.URL(field+".url", b.URL, []string{"http", "https"})
		}
		if b.Interval != 0 {
			if b.URL == "" {
				v.AddError(field+".interval", "requires url", b.Interval)
			}
			v.MinDuration(field+".interval", b.Interval, 1)
		}
	}

	return v.Err()
}
