// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ManuGH/buckets/internal/bucket"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/metrics"
)

// snapshotQueue feeds bucket snapshots to one stream client. When the client
// falls behind, the oldest queued snapshot is discarded.
type snapshotQueue struct {
	ch chan []bucket.Item[any]
}

func newSnapshotQueue(size int) *snapshotQueue {
	return &snapshotQueue{ch: make(chan []bucket.Item[any], size)}
}

func (q *snapshotQueue) push(_ any, items []bucket.Item[any]) {
	select {
	case q.ch <- items:
		return
	default:
	}

	select {
	case <-q.ch:
	default:
	}
	metrics.IncStreamDrop("slow_client")

	select {
	case q.ch <- items:
	default:
		metrics.IncStreamDrop("queue_full")
	}
}

// handleStream sends the bucket's items as Server-Sent Events: the current
// state first, then one "items" event per change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	q := newSnapshotQueue(s.cfg.StreamBuffer)
	reg, err := b.BindFunc(q.push, r.RemoteAddr)
	if err != nil {
		return
	}
	defer b.Unbind(reg)

	logger := xglog.WithContext(r.Context(), s.logger).With().
		Str(xglog.FieldBucket, b.Name()).
		Str(xglog.FieldSubscriptionID, reg.ID).
		Logger()
	logger.Debug().Str(xglog.FieldEvent, "stream.opened").Msg("stream client connected")
	defer func() {
		logger.Debug().Str(xglog.FieldEvent, "stream.closed").Msg("stream client disconnected")
	}()

	var heartbeat <-chan time.Time
	if s.cfg.StreamHeartbeat > 0 {
		t := time.NewTicker(s.cfg.StreamHeartbeat)
		defer t.Stop()
		heartbeat = t.C
	}

	var seq int
	for {
		select {
		case <-r.Context().Done():
			return
		case items := <-q.ch:
			data, err := json.Marshal(items)
			if err != nil {
				logger.Error().Err(err).Str(xglog.FieldEvent, "stream.encode_failed").Msg("encode snapshot")
				continue
			}
			seq++
			if _, err := fmt.Fprintf(w, "id: %d\nevent: items\ndata: %s\n\n", seq, data); err != nil {
				return
			}
		case <-heartbeat:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
