// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import (
	"sync"

	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/metrics"
	"github.com/ManuGH/buckets/internal/topic"
	"github.com/rs/zerolog"
)

// Item is a value tagged with the index it received when it was indexed.
type Item[T any] struct {
	Index int `json:"index"`
	Data  T   `json:"data"`
}

// Criteria selects items during Remove, Find and FindItem.
// position is the item's current slice position, not its Index.
type Criteria[T any] func(item Item[T], position int) bool

// Bucket is an ordered, indexed collection that announces its mutations on a
// private topic. It is safe for concurrent use; callbacks passed to Update,
// Remove, Find and FindItem run with the bucket locked and must not call back
// into the same bucket.
//
// Snapshots are published in mutation order. Consumers run while the bucket
// holds its emit lock, so a consumer must not mutate, Notify or Bind the same
// bucket synchronously; reads (Items, Len, Raw) are fine.
type Bucket[T any] struct {
	// emitMu orders snapshot+publish across mutations; taken before mu.
	emitMu sync.Mutex
	mu     sync.Mutex
	items  []Item[T]

	name     string
	topic    string
	registry *topic.Registry
	opts     options
	logger   zerolog.Logger
}

// New builds a bucket over items (indexed 0..n-1 in input order) and assigns
// it the next private topic from seq. It does not publish.
func New[T any](reg *topic.Registry, seq *Sequence, name string, items []T, opts ...Option) *Bucket[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bucket[T]{
		name:     name,
		topic:    seq.Next(),
		registry: reg,
		opts:     o,
	}
	if o.logger != nil {
		b.logger = *o.logger
	} else {
		b.logger = xglog.WithComponent("bucket")
	}
	b.logger = b.logger.With().
		Str(xglog.FieldBucket, name).
		Str(xglog.FieldTopic, b.topic).
		Logger()

	b.IndexAll(items)
	return b
}

// Name returns the display label.
func (b *Bucket[T]) Name() string {
	return b.name
}

// Topic returns the private topic the bucket publishes on.
func (b *Bucket[T]) Topic() string {
	return b.topic
}

// Len returns the number of items.
func (b *Bucket[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the current items.
func (b *Bucket[T]) Items() []Item[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Index wraps item with position. It has no side effects.
func (b *Bucket[T]) Index(item T, position int) Item[T] {
	return Item[T]{Index: position, Data: item}
}

// IndexAll replaces the items with items, indexed 0..n-1 in input order.
// It does not publish.
func (b *Bucket[T]) IndexAll(items []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indexAllLocked(items)
}

func (b *Bucket[T]) indexAllLocked(items []T) {
	out := make([]Item[T], len(items))
	for i, it := range items {
		out[i] = b.Index(it, i)
	}
	b.items = out
}

func (b *Bucket[T]) snapshotLocked() []Item[T] {
	out := make([]Item[T], len(b.items))
	copy(out, b.items)
	return out
}

// Notify publishes the current items on the private topic. eventType does not
// change the topic or the payload.
func (b *Bucket[T]) Notify(eventType EventType) {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.registry.Publish(b.topic, snap)
	b.logger.Trace().
		Str(xglog.FieldEvent, "bucket.notified").
		Str(xglog.FieldEventType, string(eventType)).
		Int(xglog.FieldItems, len(snap)).
		Msg("bucket notified")
}

// emit is the tail of every mutation: one publish of snap on the private
// topic, then the generic event when taps are on. Callers hold emitMu.
func (b *Bucket[T]) emit(evt EventType, snap []Item[T]) {
	b.registry.Publish(b.topic, snap)
	metrics.IncMutation(string(evt))

	b.logger.Debug().
		Str(xglog.FieldEvent, "bucket."+string(evt)).
		Int(xglog.FieldItems, len(snap)).
		Msg("bucket mutated")

	if b.opts.eventTaps {
		b.Trigger(evt, Change[T]{
			Type:   evt,
			Bucket: b.name,
			Topic:  b.topic,
			Items:  snap,
		})
	}
}
