// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with path", "http://example.com/items", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, tt.allowedSchemes)
			assert.Equal(t, tt.wantErr, !v.IsValid(), v.Err())
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{":8080", false},
		{"127.0.0.1:0", false},
		{"[::1]:9000", false},
		{"8080", true},
		{":http", true},
		{":70000", true},
	}

	for _, tt := range tests {
		v := New()
		v.ListenAddr("listen", tt.value)
		assert.Equal(t, tt.wantErr, !v.IsValid(), tt.value)
	}
}

func TestValidator_Numbers(t *testing.T) {
	v := New()
	v.Range("a", 5, 1, 10)
	v.FloatRange("b", 0.5, 0, 1)
	v.Positive("c", 1)
	v.NonNegative("d", 0)
	v.MinDuration("e", time.Second, time.Millisecond)
	require.True(t, v.IsValid())

	v.Range("a", 11, 1, 10)
	v.FloatRange("b", 1.5, 0, 1)
	v.Positive("c", 0)
	v.NonNegative("d", -1)
	v.MinDuration("e", 0, time.Millisecond)
	assert.Len(t, v.Errors(), 5)
}

func TestValidator_Strings(t *testing.T) {
	v := New()
	v.NotEmpty("name", "  ")
	v.OneOf("policy", "drop", []string{"isolate", "propagate"})
	v.OneOf("policy", "isolate", []string{"isolate", "propagate"})

	require.Len(t, v.Errors(), 2)
	assert.Equal(t, "name", v.Errors()[0].Field)
	assert.Equal(t, "policy", v.Errors()[1].Field)
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("x", 1, func(interface{}) error { return errors.New("bad x") })

	assert.EqualError(t, v.Err(), "validation failed for x: bad x")
}

func TestValidationError_Aggregates(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.AddError("a", "first", nil)
	v.AddError("b", "second", nil)

	err := v.Err()
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors(), 2)
	assert.Equal(t, "validation failed for a: first; validation failed for b: second", err.Error())
}
