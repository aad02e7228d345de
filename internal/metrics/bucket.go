// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BucketMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buckets",
		Name:      "bucket_mutations_total",
		Help:      "Total number of bucket mutations by event type",
	}, []string{"event"})

	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buckets",
		Name:      "fetch_total",
		Help:      "Total number of remote fetches by result (ok, empty, error)",
	}, []string{"result"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "buckets",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of remote fetches including decode",
		Buckets:   prometheus.DefBuckets,
	})

	StreamDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buckets",
		Name:      "stream_drops_total",
		Help:      "Total number of bucket snapshots dropped before reaching a stream client",
	}, []string{"reason"})
)

// IncMutation records a bucket mutation of the given event type.
func IncMutation(event string) {
	if event == "" {
		event = "unknown"
	}
	BucketMutationsTotal.WithLabelValues(event).Inc()
}

// ObserveFetch records the outcome and duration of one fetch.
func ObserveFetch(result string, d time.Duration) {
	if result == "" {
		result = "unknown"
	}
	FetchTotal.WithLabelValues(result).Inc()
	FetchDuration.Observe(d.Seconds())
}

// IncStreamDrop records a snapshot that could not be queued for a stream client.
func IncStreamDrop(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	StreamDropsTotal.WithLabelValues(reason).Inc()
}
