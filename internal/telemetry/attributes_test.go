// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/buckets/{name}", "/api/buckets/todo", 200)

	assert.Equal(t, []attribute.KeyValue{
		attribute.String(HTTPMethodKey, "GET"),
		attribute.String(HTTPRouteKey, "/api/buckets/{name}"),
		attribute.String(HTTPURLKey, "/api/buckets/todo"),
		attribute.Int(HTTPStatusCodeKey, 200),
	}, attrs)
}

func TestBucketAttributes(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  int
	}{
		{"todo", "Instance1", 3},
		{"todo", "", 2},
		{"", "", 1},
	}
	for _, tt := range tests {
		attrs := BucketAttributes(tt.name, tt.topic, 4)
		assert.Len(t, attrs, tt.want)
		assert.Equal(t, attribute.Int(BucketItemsKey, 4), attrs[len(attrs)-1])
	}
}

func TestFetchAttributes(t *testing.T) {
	attrs := FetchAttributes("data.items", true, 128)

	assert.Equal(t, attribute.String(FetchPathKey, "data.items"), attrs[0])
	assert.Equal(t, attribute.Bool(FetchSharedKey, true), attrs[1])
	assert.Equal(t, attribute.Int(FetchBytesKey, 128), attrs[2])
}

func TestErrorAttributes(t *testing.T) {
	assert.Equal(t, []attribute.KeyValue{attribute.String(ErrorTypeKey, "status")}, ErrorAttributes("status"))
}
