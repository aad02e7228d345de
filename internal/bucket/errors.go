// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import "errors"

var (
	// ErrNilConsumer is returned when Bind, BindFunc or On receive nothing to call.
	ErrNilConsumer = errors.New("bucket: consumer is nil")

	// ErrUnknownEvent is returned by On for events outside the vocabulary.
	ErrUnknownEvent = errors.New("bucket: unknown event type")
)
