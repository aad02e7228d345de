// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across the service.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Bucket attributes
	BucketNameKey  = "bucket.name"
	BucketTopicKey = "bucket.topic"
	BucketItemsKey = "bucket.items"

	// Fetch attributes
	FetchPathKey   = "fetch.path"
	FetchSharedKey = "fetch.shared"
	FetchBytesKey  = "fetch.bytes"

	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// BucketAttributes describes the bucket a span works on. Empty values are left out.
func BucketAttributes(name, topic string, items int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if name != "" {
		attrs = append(attrs, attribute.String(BucketNameKey, name))
	}
	if topic != "" {
		attrs = append(attrs, attribute.String(BucketTopicKey, topic))
	}
	return append(attrs, attribute.Int(BucketItemsKey, items))
}

// FetchAttributes describes a completed remote load.
func FetchAttributes(path string, shared bool, bytes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(FetchPathKey, path),
		attribute.Bool(FetchSharedKey, shared),
		attribute.Int(FetchBytesKey, bytes),
	}
}

// ErrorAttributes tags a span with an error class.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ErrorTypeKey, errorType),
	}
}
