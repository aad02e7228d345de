// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package topic

import (
	"runtime/debug"
	"sort"
	"sync"

	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler is a subscriber callback. owner is the context the record was
// registered with; payload is whatever the publisher passed.
type Handler func(owner any, payload any)

// Registration identifies one subscriber record.
type Registration struct {
	ID    string
	Topic string
}

// Valid reports whether the registration was issued by a registry.
func (r Registration) Valid() bool {
	return r.ID != ""
}

// Report is the outcome of one publish pass.
type Report struct {
	// Topic is the published topic.
	Topic string

	// Found is false when the topic had no subscriber list; nothing ran.
	Found bool

	// Delivered counts handlers that returned normally.
	Delivered int

	// Skipped counts records without a handler.
	Skipped int

	// Failed holds one *PanicError per recovered handler panic.
	Failed []error
}

// OK reports whether no handler failed during the pass.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

type record struct {
	id      string
	owner   any
	handler Handler
}

// Registry maps topic names to ordered subscriber records.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	topics map[string][]record
	byID   map[string]string

	policy  Policy
	onPanic PanicHandler
	logger  zerolog.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		topics: make(map[string][]record),
		byID:   make(map[string]string),
		policy: PolicyIsolate,
		logger: xglog.WithComponent("topic"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured failure policy.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Subscribe appends a record to topic, creating the list if needed.
// The same owner and handler may be registered more than once; each
// registration is invoked once per publish.
func (r *Registry) Subscribe(topic string, owner any, h Handler) Registration {
	reg := Registration{ID: uuid.NewString(), Topic: topic}

	r.mu.Lock()
	r.topics[topic] = append(r.topics[topic], record{id: reg.ID, owner: owner, handler: h})
	r.byID[reg.ID] = topic
	r.mu.Unlock()

	metrics.AddSubscriptions(1)
	r.logger.Debug().
		Str(xglog.FieldEvent, "topic.subscribed").
		Str(xglog.FieldTopic, topic).
		Str(xglog.FieldSubscriptionID, reg.ID).
		Msg("subscriber added")
	return reg
}

// Unsubscribe removes the record identified by reg. It returns false when the
// registration is unknown or was already removed. When the last record of a
// topic goes away the topic itself is dropped.
func (r *Registry) Unsubscribe(reg Registration) bool {
	r.mu.Lock()
	topic, ok := r.byID[reg.ID]
	if !ok {
		r.mu.Unlock()
		return false
	}

	lst := r.topics[topic]
	out := make([]record, 0, len(lst))
	for _, rec := range lst {
		if rec.id != reg.ID {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		delete(r.topics, topic)
	} else {
		r.topics[topic] = out
	}
	delete(r.byID, reg.ID)
	r.mu.Unlock()

	metrics.AddSubscriptions(-1)
	r.logger.Debug().
		Str(xglog.FieldEvent, "topic.unsubscribed").
		Str(xglog.FieldTopic, topic).
		Str(xglog.FieldSubscriptionID, reg.ID).
		Msg("subscriber removed")
	return true
}

// Publish runs every record of topic with payload and reports whether the
// topic had a subscriber list. Publishing to an unknown topic is a no-op.
func (r *Registry) Publish(topic string, payload any) bool {
	return r.Dispatch(topic, payload).Found
}

// Dispatch is Publish with a per-pass report.
// Records added while the pass runs are not part of it.
func (r *Registry) Dispatch(topic string, payload any) Report {
	r.mu.RLock()
	lst, ok := r.topics[topic]
	snapshot := append([]record(nil), lst...)
	r.mu.RUnlock()

	metrics.IncPublish(ok)
	report := Report{Topic: topic, Found: ok}
	if !ok {
		return report
	}

	for _, rec := range snapshot {
		if rec.handler == nil {
			report.Skipped++
			continue
		}
		if r.policy == PolicyPropagate {
			rec.handler(rec.owner, payload)
			report.Delivered++
			continue
		}
		if perr := r.invoke(topic, rec, payload); perr != nil {
			report.Failed = append(report.Failed, perr)
			continue
		}
		report.Delivered++
	}
	return report
}

func (r *Registry) invoke(topic string, rec record, payload any) (perr *PanicError) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		perr = &PanicError{
			Topic:          topic,
			SubscriptionID: rec.id,
			Value:          v,
			Stack:          debug.Stack(),
		}
		metrics.IncHandlerPanic()
		r.logger.Error().
			Str(xglog.FieldEvent, "topic.handler_panic").
			Str(xglog.FieldTopic, topic).
			Str(xglog.FieldSubscriptionID, rec.id).
			Interface("panic", v).
			Msg("subscriber handler panicked; continuing dispatch")

		if r.onPanic != nil {
			func() {
				defer func() { _ = recover() }()
				r.onPanic(perr)
			}()
		}
	}()

	rec.handler(rec.owner, payload)
	return nil
}

// Count returns the number of records subscribed to topic.
func (r *Registry) Count(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topic])
}

// Len returns the total number of records across all topics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Topics returns the topics that currently have subscribers, sorted.
func (r *Registry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.topics))
	for t := range r.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
