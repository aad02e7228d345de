// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/buckets/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	want := Defaults()
	want.Version = "v1.2.3"
	assert.Equal(t, want, cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "buckets.yaml", `
log:
  level: debug
server:
  listen_addr: "127.0.0.1:9090"
broker:
  policy: propagate
buckets:
  - name: todo
    items: ["write docs", "ship it"]
  - name: prices
    url: https://example.com/prices
    params:
      currency: eur
    path: data.rows
    interval: 30s
    keep_zero: true
`)

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "buckets", cfg.Log.Service, "untouched keys keep defaults")
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.ListenAddr)
	assert.Equal(t, "propagate", cfg.Broker.Policy)

	require.Len(t, cfg.Buckets, 2)
	assert.Equal(t, []any{"write docs", "ship it"}, cfg.Buckets[0].Items)
	assert.Equal(t, BucketConfig{
		Name:     "prices",
		URL:      "https://example.com/prices",
		Params:   map[string]string{"currency": "eur"},
		Path:     "data.rows",
		Interval: 30 * time.Second,
		KeepZero: true,
	}, cfg.Buckets[1])
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "buckets.yml", "log:\n  level: debug\nfetch:\n  rate: 2\n")
	t.Setenv("BUCKETS_LOG_LEVEL", "warn")
	t.Setenv("BUCKETS_FETCH_RATE", "0.5")
	t.Setenv("BUCKETS_STREAM_BUFFER", "64")
	t.Setenv("BUCKETS_TRACING_ENABLED", "yes")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.InDelta(t, 0.5, cfg.Fetch.Rate, 1e-9)
	assert.Equal(t, 64, cfg.Stream.Buffer)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Contains(t, l.ConsumedEnvKeys, "BUCKETS_LOG_LEVEL")
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("BUCKETS_STREAM_BUFFER", "many")

	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Stream.Buffer, cfg.Stream.Buffer)
}

func TestLoadStrictUnknownField(t *testing.T) {
	path := writeConfig(t, "buckets.yaml", "server:\n  listen: \":80\"\n")

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoadRejectsNonYAML(t *testing.T) {
	path := writeConfig(t, "buckets.json", "{}")

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "buckets.yaml", "log:\n  level: info\n---\nlog:\n  level: debug\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeConfig(t, "buckets.yaml", "")

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Server, cfg.Server)
}

func TestLoadValidationError(t *testing.T) {
	path := writeConfig(t, "buckets.yaml", `
broker:
  policy: drop
buckets:
  - name: a
  - name: a
    interval: 5s
`)

	_, err := NewLoader(path, "dev").Load()

	var ve validate.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Errors()))
	for _, e := range ve.Errors() {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"broker.policy", "buckets[1].name", "buckets[1].interval"}, fields)
}

func TestValidateTelemetry(t *testing.T) {
	cfg := Defaults()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "zipkin"
	cfg.Telemetry.SamplingRate = 2

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.exporter")
	assert.Contains(t, err.Error(), "telemetry.sampling_rate")
}
