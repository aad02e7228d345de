// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/buckets/internal/bucket"
	"github.com/ManuGH/buckets/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// readEvent returns the data line of the next "items" event.
func readEvent(t *testing.T, sc *bufio.Scanner) string {
	t.Helper()
	var data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && data != "":
			return data
		}
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream ended")
	return ""
}

func TestStreamReplaysThenFollows(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, cat := newServer(t, Config{StreamBuffer: 4}, catalog.Source{Name: "todo", Items: []any{"a"}})
	b, err := cat.Get("todo")
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/buckets/todo/stream", nil)
	require.NoError(t, err)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	sc := bufio.NewScanner(resp.Body)

	assert.JSONEq(t, `[{"index":0,"data":"a"}]`, readEvent(t, sc))

	b.Add("b")
	assert.JSONEq(t, `[{"index":0,"data":"a"},{"index":1,"data":"b"}]`, readEvent(t, sc))

	cancel()
	_ = resp.Body.Close()

	require.Eventually(t, func() bool {
		return cat.Registry().Count(b.Topic()) == 0
	}, 2*time.Second, 10*time.Millisecond, "stream consumer unbound on disconnect")
	srv.Close()
}

func TestSnapshotQueueKeepsNewest(t *testing.T) {
	q := newSnapshotQueue(1)

	q.push(nil, []bucket.Item[any]{{Index: 0, Data: "old"}})
	q.push(nil, []bucket.Item[any]{{Index: 0, Data: "new"}})

	got := <-q.ch
	assert.Equal(t, "new", got[0].Data)
	select {
	case <-q.ch:
		t.Fatal("queue should hold one snapshot")
	default:
	}
}

func TestStreamUnknownBucket(t *testing.T) {
	s, _ := newServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/api/buckets/missing/stream", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
