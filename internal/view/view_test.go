// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package view

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"text/template"

	"github.com/ManuGH/buckets/internal/bucket"
	"github.com/ManuGH/buckets/internal/topic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = zerolog.New(io.Discard)

func newBucket(items []string) *bucket.Bucket[string] {
	reg := topic.New(topic.WithLogger(quiet))
	return bucket.New(reg, bucket.NewSequence(), "letters", items, bucket.WithLogger(quiet))
}

func TestNewRunsLifecycle(t *testing.T) {
	var calls []string
	hooks := Hooks[string]{
		BeforeInitialize: func(*View[string]) { calls = append(calls, "beforeInitialize") },
		Initialize:       func(*View[string]) { calls = append(calls, "initialize") },
		BeforeRender:     func(*View[string]) { calls = append(calls, "beforeRender") },
		OnRender:         func(*View[string]) { calls = append(calls, "onRender") },
	}
	render := func(_ *View[string], items []bucket.Item[string]) error {
		calls = append(calls, "render")
		return nil
	}

	v := New[string]("list", render, WithHooks(hooks), WithLogger[string](quiet))

	assert.Equal(t, []string{"beforeInitialize", "initialize", "beforeRender", "render", "onRender"}, calls)
	assert.Equal(t, 1, v.Renders())
	assert.Empty(t, v.Last())
	assert.Nil(t, v.Bucket())
	assert.Equal(t, "list", v.Name())
}

func TestBindAttachesAndRenders(t *testing.T) {
	b := newBucket([]string{"a", "b"})
	v := New[string]("list", nil, WithLogger[string](quiet))

	_, err := b.Bind(v)
	require.NoError(t, err)

	assert.Same(t, b, v.Bucket())
	assert.Equal(t, 2, v.Renders())
	assert.Equal(t, []bucket.Item[string]{{Index: 0, Data: "a"}, {Index: 1, Data: "b"}}, v.Last())

	b.Add("c")
	assert.Equal(t, 3, v.Renders())
	assert.Len(t, v.Last(), 3)
}

func TestRenderErrorIsKept(t *testing.T) {
	boom := errors.New("boom")
	fail := false
	render := func(*View[string], []bucket.Item[string]) error {
		if fail {
			return boom
		}
		return nil
	}
	rendered := 0
	v := New[string]("list", render,
		WithHooks(Hooks[string]{OnRender: func(*View[string]) { rendered++ }}),
		WithLogger[string](quiet))
	require.NoError(t, v.Err())

	fail = true
	v.Render(nil)

	assert.ErrorIs(t, v.Err(), boom)
	assert.Equal(t, 2, rendered)
}

func TestTemplateRenderer(t *testing.T) {
	tmpl := template.Must(template.New("list").Parse(
		`{{.Name}}:{{range .Items}} {{.Index}}={{.Data}}{{end}}` + "\n"))
	var buf bytes.Buffer

	b := newBucket([]string{"a"})
	v := New[string]("letters", TemplateRenderer[string](&buf, tmpl), WithLogger[string](quiet))
	_, err := b.Bind(v)
	require.NoError(t, err)
	b.Add("b")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"letters:", "letters: 0=a", "letters: 0=a 1=b"}, lines)
}

func TestTemplateRendererError(t *testing.T) {
	tmpl := template.Must(template.New("bad").Parse(`{{.Missing}}`))

	v := New[string]("bad", TemplateRenderer[string](io.Discard, tmpl), WithLogger[string](quiet))

	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "render bad")
}

func TestLogRenderer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	b := newBucket([]string{"a"})
	v := New[string]("letters", LogRenderer[string](logger), WithLogger[string](quiet))
	_, err := b.Bind(v)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"event":"view.rendered"`))
	assert.Contains(t, out, `"view":"letters"`)
	assert.Contains(t, out, `"data":[{"index":0,"data":"a"}]`)
}
