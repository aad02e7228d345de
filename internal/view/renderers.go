// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package view

import (
	"fmt"
	"io"
	"text/template"

	"github.com/ManuGH/buckets/internal/bucket"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/rs/zerolog"
)

// LogRenderer writes one info event per render.
func LogRenderer[T any](logger zerolog.Logger) RenderFunc[T] {
	return func(v *View[T], items []bucket.Item[T]) error {
		logger.Info().
			Str(xglog.FieldEvent, "view.rendered").
			Str(xglog.FieldView, v.Name()).
			Int(xglog.FieldItems, len(items)).
			Interface("data", items).
			Msg("view rendered")
		return nil
	}
}

// TemplateData is the dot value of TemplateRenderer templates.
type TemplateData[T any] struct {
	Name  string
	Items []bucket.Item[T]
}

// TemplateRenderer executes tmpl into w on every render.
func TemplateRenderer[T any](w io.Writer, tmpl *template.Template) RenderFunc[T] {
	return func(v *View[T], items []bucket.Item[T]) error {
		if err := tmpl.Execute(w, TemplateData[T]{Name: v.Name(), Items: items}); err != nil {
			return fmt.Errorf("render %s: %w", v.Name(), err)
		}
		return nil
	}
}
