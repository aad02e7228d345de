// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID      = "request_id"
	FieldCorrelationID  = "correlation_id"
	FieldSubscriptionID = "subscription_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Broker / collection fields
	FieldTopic     = "topic"
	FieldBucket    = "bucket"
	FieldItems     = "items"
	FieldEventType = "event_type"
	FieldView      = "view"

	// Transport fields
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration"
)
