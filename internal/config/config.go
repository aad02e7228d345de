// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the buckets service configuration from defaults, a
// strict YAML file and BUCKETS_* environment variables, in that order.
package config

import "time"

// AppConfig is the complete service configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Broker    BrokerConfig    `yaml:"broker"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Stream    StreamConfig    `yaml:"stream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Buckets   []BucketConfig  `yaml:"buckets"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RateLimit is requests per RateWindow per client IP; 0 disables it.
	RateLimit        int           `yaml:"rate_limit"`
	RateWindow       time.Duration `yaml:"rate_window"`
	RefreshRateLimit int           `yaml:"refresh_rate_limit"`
}

type BrokerConfig struct {
	// Policy is "isolate" or "propagate".
	Policy string `yaml:"policy"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Rate      float64       `yaml:"rate"`
	Burst     int           `yaml:"burst"`
	UserAgent string        `yaml:"user_agent"`
}

type StreamConfig struct {
	Buffer    int           `yaml:"buffer"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// BucketConfig declares one bucket served by the process.
type BucketConfig struct {
	Name      string            `yaml:"name"`
	Items     []any             `yaml:"items"`
	URL       string            `yaml:"url"`
	Params    map[string]string `yaml:"params"`
	Path      string            `yaml:"path"`
	Interval  time.Duration     `yaml:"interval"`
	KeepZero  bool              `yaml:"keep_zero"`
	EventTaps bool              `yaml:"event_taps"`
}

// Defaults returns the configuration used before file and environment overrides.
func Defaults() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:   "info",
			Service: "buckets",
		},
		Server: ServerConfig{
			ListenAddr:       ":8080",
			ReadTimeout:      10 * time.Second,
			IdleTimeout:      120 * time.Second,
			ShutdownTimeout:  15 * time.Second,
			RateLimit:        120,
			RateWindow:       time.Minute,
			RefreshRateLimit: 6,
		},
		Broker: BrokerConfig{
			Policy: "isolate",
		},
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			Rate:      10,
			Burst:     20,
			UserAgent: "buckets-fetch",
		},
		Stream: StreamConfig{
			Buffer:    16,
			Heartbeat: 30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
	}
}
