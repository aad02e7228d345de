// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/buckets/internal/log"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BUCKETS_"

// lookup returns the raw value of key, or ok=false when it is unset or empty.
// The empty and unset cases are logged as a fallback to defaultValue.
func lookup(logger zerolog.Logger, key string, defaultValue any) (string, bool) {
	v, exists := os.LookupEnv(key)
	if !exists {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return "", false
	}
	if v == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return "", false
	}
	return v, true
}

func logFromEnv(logger zerolog.Logger, key string, value any) {
	logger.Debug().
		Str("key", key).
		Interface("value", value).
		Str("source", "environment").
		Msg("using environment variable")
}

func logInvalid(logger zerolog.Logger, key, kind, raw string, defaultValue any) {
	logger.Warn().
		Str("key", key).
		Str("value", raw).
		Interface("default", defaultValue).
		Msgf("invalid %s in environment variable, using default", kind)
}

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	v, ok := lookup(logger, key, defaultValue)
	if !ok {
		return defaultValue
	}
	lowerKey := strings.ToLower(key)
	if strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "password") {
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Bool("sensitive", true).
			Msg("using environment variable")
		return v
	}
	logFromEnv(logger, key, v)
	return v
}

// ParseInt reads an integer from environment variable or returns default value.
// It falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key, defaultValue)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logInvalid(logger, key, "integer", v, defaultValue)
		return defaultValue
	}
	logFromEnv(logger, key, i)
	return i
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
// It falls back to default on parse errors or empty variables and logs the choice.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key, defaultValue)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logInvalid(logger, key, "duration", v, defaultValue)
		return defaultValue
	}
	logFromEnv(logger, key, d)
	return d
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key, defaultValue)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		logFromEnv(logger, key, true)
		return true
	case "false", "0", "no":
		logFromEnv(logger, key, false)
		return false
	default:
		logInvalid(logger, key, "boolean", v, defaultValue)
		return defaultValue
	}
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key, defaultValue)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logInvalid(logger, key, "float", v, defaultValue)
		return defaultValue
	}
	logFromEnv(logger, key, f)
	return f
}
