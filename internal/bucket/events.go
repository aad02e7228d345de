// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import "github.com/ManuGH/buckets/internal/topic"

// EventType names a kind of mutation. Its value doubles as the generic topic name.
type EventType string

// Generic event vocabulary.
const (
	EventAdded     EventType = "added"
	EventRemoved   EventType = "removed"
	EventUpdated   EventType = "updated"
	EventRefreshed EventType = "refreshed"
)

// EventTypes returns the vocabulary in a stable order.
func EventTypes() []EventType {
	return []EventType{EventAdded, EventRemoved, EventUpdated, EventRefreshed}
}

// Valid reports whether e is part of the vocabulary.
func (e EventType) Valid() bool {
	switch e {
	case EventAdded, EventRemoved, EventUpdated, EventRefreshed:
		return true
	}
	return false
}

// Change is the generic-channel payload a bucket built WithEventTaps sends.
type Change[T any] struct {
	Type   EventType `json:"type"`
	Bucket string    `json:"bucket"`
	Topic  string    `json:"topic"`
	Items  []Item[T] `json:"items"`
}

// Trigger publishes data on the generic topic for event and reports whether
// anyone was listening.
func (b *Bucket[T]) Trigger(event EventType, data any) bool {
	return b.registry.Publish(string(event), data)
}

// On listens on the generic topic for event. Listeners hear every bucket that
// shares the registry, not only b.
func (b *Bucket[T]) On(event EventType, fn func(data any)) (topic.Registration, error) {
	if !event.Valid() {
		return topic.Registration{}, ErrUnknownEvent
	}
	if fn == nil {
		return topic.Registration{}, ErrNilConsumer
	}
	return b.registry.Subscribe(string(event), b, func(_ any, payload any) {
		fn(payload)
	}), nil
}

// Off removes a listener registered with On.
func (b *Bucket[T]) Off(reg topic.Registration) bool {
	if !EventType(reg.Topic).Valid() {
		return false
	}
	return b.registry.Unsubscribe(reg)
}
