// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package catalog keeps the named buckets a process serves.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/buckets/internal/bucket"
	"github.com/ManuGH/buckets/internal/fetch"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/topic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicate   = errors.New("catalog: bucket already exists")
	ErrNotFound    = errors.New("catalog: bucket not found")
	ErrNoSource    = errors.New("catalog: bucket has no remote source")
	ErrInvalidName = errors.New("catalog: bucket name must not be empty")
)

// Source declares one bucket: its seed items and optional remote origin.
type Source struct {
	Name      string
	Items     []any
	Remote    fetch.Source
	Interval  time.Duration
	KeepZero  bool
	EventTaps bool
}

// Info summarizes a bucket for listings.
type Info struct {
	Name     string `json:"name"`
	Topic    string `json:"topic"`
	Items    int    `json:"items"`
	URL      string `json:"url,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// SourceStatus reports the outcome of the latest loads of a remote bucket.
type SourceStatus struct {
	Name        string
	URL         string
	LastSuccess time.Time
	LastError   string
	// Failures counts consecutive failed loads.
	Failures int
}

type entry struct {
	bucket *bucket.Bucket[any]
	source Source

	mu          sync.Mutex
	lastSuccess time.Time
	lastErr     string
	failures    int
}

func (e *entry) record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.lastErr = err.Error()
		e.failures++
		return
	}
	e.lastSuccess = time.Now()
	e.lastErr = ""
	e.failures = 0
}

// Catalog owns named buckets that share one registry and topic sequence.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*entry

	registry *topic.Registry
	seq      *bucket.Sequence
	fetcher  *fetch.Fetcher
	logger   zerolog.Logger
}

// New returns an empty catalog.
func New(reg *topic.Registry, seq *bucket.Sequence, f *fetch.Fetcher, logger zerolog.Logger) *Catalog {
	return &Catalog{
		entries:  make(map[string]*entry),
		registry: reg,
		seq:      seq,
		fetcher:  f,
		logger:   logger.With().Str(xglog.FieldComponent, "catalog").Logger(),
	}
}

// Registry returns the shared registry.
func (c *Catalog) Registry() *topic.Registry {
	return c.registry
}

// Create adds a bucket seeded with src.Items.
func (c *Catalog) Create(src Source) (*bucket.Bucket[any], error) {
	src.Name = strings.TrimSpace(src.Name)
	if src.Name == "" {
		return nil, ErrInvalidName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[src.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, src.Name)
	}

	opts := []bucket.Option{bucket.WithLogger(c.logger)}
	if src.KeepZero {
		opts = append(opts, bucket.WithKeepZeroValues())
	}
	if src.EventTaps {
		opts = append(opts, bucket.WithEventTaps())
	}
	b := bucket.New(c.registry, c.seq, src.Name, src.Items, opts...)
	c.entries[src.Name] = &entry{bucket: b, source: src}

	c.logger.Info().
		Str(xglog.FieldEvent, "catalog.created").
		Str(xglog.FieldBucket, src.Name).
		Str(xglog.FieldTopic, b.Topic()).
		Int(xglog.FieldItems, len(src.Items)).
		Msg("bucket created")
	return b, nil
}

// Get returns the bucket called name.
func (c *Catalog) Get(name string) (*bucket.Bucket[any], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.bucket, nil
}

// Names returns bucket names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Infos describes every bucket, sorted by name.
func (c *Catalog) Infos() []Info {
	names := c.Names()
	out := make([]Info, 0, len(names))

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range names {
		e, ok := c.entries[n]
		if !ok {
			continue
		}
		info := Info{
			Name:  n,
			Topic: e.bucket.Topic(),
			Items: e.bucket.Len(),
			URL:   e.source.Remote.URL,
		}
		if e.source.Interval > 0 {
			info.Interval = e.source.Interval.String()
		}
		out = append(out, info)
	}
	return out
}

// Refresh loads the bucket's remote source once.
func (c *Catalog) Refresh(ctx context.Context, name string) error {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if e.source.Remote.URL == "" {
		return fmt.Errorf("%w: %s", ErrNoSource, name)
	}
	err := fetch.Into(ctx, c.fetcher, e.bucket, e.source.Remote)
	e.record(err)
	return err
}

// SourceStatuses reports load status for every bucket with a remote source,
// sorted by name.
func (c *Catalog) SourceStatuses() []SourceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]SourceStatus, 0, len(c.entries))
	for name, e := range c.entries {
		if e.source.Remote.URL == "" {
			continue
		}
		e.mu.Lock()
		out = append(out, SourceStatus{
			Name:        name,
			URL:         e.source.Remote.URL,
			LastSuccess: e.lastSuccess,
			LastError:   e.lastErr,
			Failures:    e.failures,
		})
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run polls every bucket that has a remote source and a positive interval
// until ctx is done. It returns at once when there is nothing to poll.
func (c *Catalog) Run(ctx context.Context) error {
	c.mu.RLock()
	var polled []*entry
	for _, e := range c.entries {
		if e.source.Remote.URL != "" && e.source.Interval > 0 {
			polled = append(polled, e)
		}
	}
	c.mu.RUnlock()

	if len(polled) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range polled {
		c.logger.Info().
			Str(xglog.FieldEvent, "catalog.poll_started").
			Str(xglog.FieldBucket, e.bucket.Name()).
			Str(xglog.FieldURL, e.source.Remote.URL).
			Dur("interval", e.source.Interval).
			Msg("polling remote source")
		g.Go(func() error {
			return fetch.Poll(gctx, c.fetcher, e.bucket, e.source.Remote, e.source.Interval, e.record)
		})
	}
	return g.Wait()
}
