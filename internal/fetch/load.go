// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fetch

import (
	"bytes"
	"context"
	"time"

	"github.com/ManuGH/buckets/internal/bucket"
	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/metrics"
	"github.com/ManuGH/buckets/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
)

// Source describes where a bucket's items come from.
type Source struct {
	URL    string            `yaml:"url" json:"url"`
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	// Path is a gjson path to the array inside the response; empty means the
	// response itself is the array.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Into fetches src, decodes it and refreshes b with the result. An empty body
// leaves b untouched. Failures are logged and counted, never applied to b.
func Into[T any](ctx context.Context, f *Fetcher, b *bucket.Bucket[T], src Source) error {
	ctx, span := telemetry.Tracer("buckets.fetch").Start(ctx, "buckets.fetch.into")
	defer span.End()

	start := time.Now()
	logger := xglog.WithContext(ctx, f.logger).With().
		Str(xglog.FieldBucket, b.Name()).
		Str(xglog.FieldURL, src.URL).
		Logger()

	fail := func(stage string, err error) error {
		d := time.Since(start)
		metrics.ObserveFetch("error", d)
		span.SetAttributes(telemetry.ErrorAttributes(stage)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "fetch.failed").
			Str("stage", stage).
			Dur(xglog.FieldDuration, d).
			Msg("fetch failed")
		return err
	}

	body, err := f.Get(ctx, src.URL, src.Params)
	if err != nil {
		return fail("request", err)
	}
	span.SetAttributes(telemetry.FetchAttributes(src.Path, false, len(body))...)

	if len(bytes.TrimSpace(body)) == 0 {
		metrics.ObserveFetch("empty", time.Since(start))
		logger.Debug().Str(xglog.FieldEvent, "fetch.empty").Msg("empty response, bucket unchanged")
		return nil
	}

	items, err := Decode[T](body, src.Path)
	if err != nil {
		return fail("decode", err)
	}

	b.Refresh(items)
	d := time.Since(start)
	metrics.ObserveFetch("ok", d)
	span.SetAttributes(telemetry.BucketAttributes(b.Name(), b.Topic(), len(items))...)
	span.SetStatus(codes.Ok, "")
	logger.Info().
		Str(xglog.FieldEvent, "fetch.applied").
		Int(xglog.FieldItems, len(items)).
		Dur(xglog.FieldDuration, d).
		Msg("bucket refreshed from source")
	return nil
}

// Poll loads src into b now and then every interval until ctx is done.
// Individual failures do not stop polling. report, when non-nil, receives
// the result of every load.
func Poll[T any](ctx context.Context, f *Fetcher, b *bucket.Bucket[T], src Source, interval time.Duration, report func(error)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := Into(ctx, f, b, src)
		if report != nil && ctx.Err() == nil {
			report(err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
