// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	assert.Equal(t, "fallback", ParseString("BUCKETS_TEST_UNSET", "fallback"))

	t.Setenv("BUCKETS_TEST_EMPTY", "")
	assert.Equal(t, "fallback", ParseString("BUCKETS_TEST_EMPTY", "fallback"))

	t.Setenv("BUCKETS_TEST_STRING", "value")
	assert.Equal(t, "value", ParseString("BUCKETS_TEST_STRING", "fallback"))

	t.Setenv("BUCKETS_TEST_TOKEN", "secret")
	assert.Equal(t, "secret", ParseString("BUCKETS_TEST_TOKEN", ""))
}

func TestParseInt(t *testing.T) {
	t.Setenv("BUCKETS_TEST_INT", "42")
	assert.Equal(t, 42, ParseInt("BUCKETS_TEST_INT", 1))

	t.Setenv("BUCKETS_TEST_INT", "forty-two")
	assert.Equal(t, 1, ParseInt("BUCKETS_TEST_INT", 1))
}

func TestParseDuration(t *testing.T) {
	t.Setenv("BUCKETS_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, ParseDuration("BUCKETS_TEST_DURATION", time.Second))

	t.Setenv("BUCKETS_TEST_DURATION", "90")
	assert.Equal(t, time.Second, ParseDuration("BUCKETS_TEST_DURATION", time.Second))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"YES", true},
		{"1", true},
		{"false", false},
		{"No", false},
		{"0", false},
		{"maybe", true},
	}
	for _, tt := range tests {
		t.Setenv("BUCKETS_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, ParseBool("BUCKETS_TEST_BOOL", true), tt.value)
	}
}

func TestParseFloat(t *testing.T) {
	t.Setenv("BUCKETS_TEST_FLOAT", "0.25")
	assert.InDelta(t, 0.25, ParseFloat("BUCKETS_TEST_FLOAT", 1), 1e-9)

	t.Setenv("BUCKETS_TEST_FLOAT", "a quarter")
	assert.InDelta(t, 1.0, ParseFloat("BUCKETS_TEST_FLOAT", 1), 1e-9)
}
