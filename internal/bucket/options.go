// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import "github.com/rs/zerolog"

type options struct {
	keepZero  bool
	eventTaps bool
	logger    *zerolog.Logger
}

// Option configures a Bucket.
type Option func(*options)

// WithKeepZeroValues makes Raw and Serialize keep zero-valued data.
// By default zero values (0, "", false, nil) are left out of the projection.
func WithKeepZeroValues() Option {
	return func(o *options) {
		o.keepZero = true
	}
}

// WithEventTaps makes every mutation also Trigger its event type on the
// generic channel with a Change payload.
func WithEventTaps() Option {
	return func(o *options) {
		o.eventTaps = true
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}
