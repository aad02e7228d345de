// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TopicPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buckets",
		Name:      "topic_publish_total",
		Help:      "Total number of topic publishes by result (delivered, no_subscribers)",
	}, []string{"result"})

	TopicHandlerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buckets",
		Name:      "topic_handler_panics_total",
		Help:      "Total number of subscriber handlers that panicked during an isolated dispatch",
	})

	TopicSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "buckets",
		Name:      "topic_subscriptions",
		Help:      "Current number of subscriber records across all topic registries",
	})
)

// IncPublish records one publish pass. found is false when the topic had no subscribers.
func IncPublish(found bool) {
	result := "delivered"
	if !found {
		result = "no_subscribers"
	}
	TopicPublishTotal.WithLabelValues(result).Inc()
}

// IncHandlerPanic records a recovered subscriber panic.
func IncHandlerPanic() {
	TopicHandlerPanicsTotal.Inc()
}

// AddSubscriptions adjusts the subscription gauge by delta.
func AddSubscriptions(delta int) {
	TopicSubscriptions.Add(float64(delta))
}
