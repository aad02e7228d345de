// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import (
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/topic"
)

// View is a consumer that renders the full item list.
type View[T any] interface {
	Render(items []Item[T])
}

// Attacher is implemented by views that want a reference to the bucket they
// are bound to.
type Attacher[T any] interface {
	AttachBucket(b *Bucket[T])
}

// Callback is a plain consumer. owner is the value passed to BindFunc.
type Callback[T any] func(owner any, items []Item[T])

// Bind subscribes view to the private topic and immediately notifies, so the
// view (and every other consumer already bound) receives the current items.
func (b *Bucket[T]) Bind(view View[T]) (topic.Registration, error) {
	if view == nil {
		return topic.Registration{}, ErrNilConsumer
	}
	if a, ok := view.(Attacher[T]); ok {
		a.AttachBucket(b)
	}

	reg := b.registry.Subscribe(b.topic, view, func(owner any, payload any) {
		owner.(View[T]).Render(itemsOf[T](payload))
	})
	b.logBound(reg)
	b.Notify("")
	return reg, nil
}

// BindFunc subscribes fn with owner as its context and immediately notifies.
func (b *Bucket[T]) BindFunc(fn Callback[T], owner any) (topic.Registration, error) {
	if fn == nil {
		return topic.Registration{}, ErrNilConsumer
	}

	reg := b.registry.Subscribe(b.topic, owner, func(o any, payload any) {
		fn(o, itemsOf[T](payload))
	})
	b.logBound(reg)
	b.Notify("")
	return reg, nil
}

// Unbind removes a consumer registered by Bind or BindFunc.
func (b *Bucket[T]) Unbind(reg topic.Registration) bool {
	if reg.Topic != b.topic {
		return false
	}
	return b.registry.Unsubscribe(reg)
}

func (b *Bucket[T]) logBound(reg topic.Registration) {
	b.logger.Debug().
		Str(xglog.FieldEvent, "bucket.bound").
		Str(xglog.FieldSubscriptionID, reg.ID).
		Msg("consumer bound")
}

func itemsOf[T any](payload any) []Item[T] {
	items, _ := payload.([]Item[T])
	return items
}
