// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package topic

import (
	"github.com/rs/zerolog"
)

// Policy decides what a publish pass does when a handler panics.
type Policy int

const (
	// PolicyIsolate recovers the panic, reports it and continues with the next record.
	PolicyIsolate Policy = iota

	// PolicyPropagate lets the panic unwind to the publisher's caller,
	// skipping the remaining records of that pass.
	PolicyPropagate
)

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case PolicyIsolate:
		return "isolate"
	case PolicyPropagate:
		return "propagate"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "isolate":
		return PolicyIsolate, true
	case "propagate":
		return PolicyPropagate, true
	default:
		return PolicyIsolate, false
	}
}

// PanicHandler is called after a handler panic has been recovered under PolicyIsolate.
type PanicHandler func(err *PanicError)

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithPanicHandler sets a callback for recovered panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(r *Registry) {
		r.onPanic = h
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}
