// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package topic

import (
	"errors"
	"fmt"
)

// ErrHandlerPanic classifies recovered subscriber panics.
var ErrHandlerPanic = errors.New("topic: handler panicked")

// PanicError wraps a recovered panic from one subscriber record.
type PanicError struct {
	// Topic is the topic being published when the handler panicked.
	Topic string

	// SubscriptionID identifies the record whose handler panicked.
	SubscriptionID string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("topic %q: handler %s panicked: %v", e.Topic, e.SubscriptionID, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
