// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package view provides a bindable consumer that renders bucket contents
// through lifecycle hooks.
package view

import (
	"sync"

	"github.com/ManuGH/buckets/internal/bucket"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/rs/zerolog"
)

// RenderFunc draws items. A returned error is logged and kept as Err.
type RenderFunc[T any] func(v *View[T], items []bucket.Item[T]) error

// Hook runs at a lifecycle point of a view.
type Hook[T any] func(v *View[T])

// Hooks are the optional lifecycle callbacks. Initialize hooks run once from
// New; render hooks run around every Render.
type Hooks[T any] struct {
	BeforeInitialize Hook[T]
	Initialize       Hook[T]
	BeforeRender     Hook[T]
	OnRender         Hook[T]
}

// Option configures a View.
type Option[T any] func(*View[T])

// WithHooks sets the lifecycle hooks.
func WithHooks[T any](h Hooks[T]) Option[T] {
	return func(v *View[T]) {
		v.hooks = h
	}
}

// WithLogger replaces the component logger.
func WithLogger[T any](l zerolog.Logger) Option[T] {
	return func(v *View[T]) {
		v.logger = l
		v.hasLogger = true
	}
}

// View renders the items of the bucket it is bound to.
type View[T any] struct {
	name   string
	render RenderFunc[T]
	hooks  Hooks[T]

	logger    zerolog.Logger
	hasLogger bool

	mu      sync.Mutex
	bucket  *bucket.Bucket[T]
	renders int
	last    []bucket.Item[T]
	err     error
}

// New builds a view, runs its initialize hooks and renders an empty list once.
func New[T any](name string, render RenderFunc[T], opts ...Option[T]) *View[T] {
	v := &View[T]{name: name, render: render}
	for _, opt := range opts {
		opt(v)
	}
	if !v.hasLogger {
		v.logger = xglog.WithComponent("view")
	}
	v.logger = v.logger.With().Str(xglog.FieldView, name).Logger()

	if v.hooks.BeforeInitialize != nil {
		v.hooks.BeforeInitialize(v)
	}
	if v.hooks.Initialize != nil {
		v.hooks.Initialize(v)
	}
	v.Render([]bucket.Item[T]{})
	return v
}

// AttachBucket records the bucket the view is bound to.
func (v *View[T]) AttachBucket(b *bucket.Bucket[T]) {
	v.mu.Lock()
	v.bucket = b
	v.mu.Unlock()
}

// Render runs BeforeRender, the render function and OnRender.
func (v *View[T]) Render(items []bucket.Item[T]) {
	if v.hooks.BeforeRender != nil {
		v.hooks.BeforeRender(v)
	}

	var err error
	if v.render != nil {
		err = v.render(v, items)
	}

	v.mu.Lock()
	v.renders++
	v.last = items
	v.err = err
	v.mu.Unlock()

	if err != nil {
		v.logger.Warn().Err(err).
			Str(xglog.FieldEvent, "view.render_failed").
			Int(xglog.FieldItems, len(items)).
			Msg("render failed")
	}

	if v.hooks.OnRender != nil {
		v.hooks.OnRender(v)
	}
}

// Name returns the view name.
func (v *View[T]) Name() string {
	return v.name
}

// Bucket returns the attached bucket, or nil before Bind.
func (v *View[T]) Bucket() *bucket.Bucket[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bucket
}

// Renders counts completed renders, including the initial empty one.
func (v *View[T]) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Last returns the items passed to the latest render.
func (v *View[T]) Last() []bucket.Item[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Err returns the error of the latest render.
func (v *View[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
