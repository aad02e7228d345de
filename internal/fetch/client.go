// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fetch loads remote JSON arrays into buckets.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	xglog "github.com/ManuGH/buckets/internal/log"
	"github.com/ManuGH/buckets/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRate      = 10
	defaultBurst     = 20
	defaultUserAgent = "buckets-fetch"

	maxBodyBytes    = 16 << 20
	maxErrorSnippet = 256
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRate paces outgoing requests. A non-positive limit disables pacing.
func WithRate(limit rate.Limit, burst int) Option {
	return func(f *Fetcher) {
		if limit <= 0 {
			f.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if strings.TrimSpace(ua) != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
		f.hasLogger = true
	}
}

// Fetcher performs paced, deduplicated GET requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
	group     singleflight.Group

	logger    zerolog.Logger
	hasLogger bool
}

// New builds a Fetcher with a traced transport.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   defaultTimeout,
		limiter:   rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: f.timeout,
				TLSHandshakeTimeout:   5 * time.Second,
			}),
		}
	}
	if !f.hasLogger {
		f.logger = xglog.WithComponent("fetch")
	}
	return f
}

type result struct {
	body []byte
}

// Get requests rawURL with params merged into its query and returns the body.
// Concurrent calls for the same final URL share one request.
func (f *Fetcher) Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer("buckets.fetch").Start(ctx, "buckets.fetch.get",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ch := f.group.DoChan(target, func() (interface{}, error) {
		body, err := f.do(context.WithoutCancel(ctx), target)
		return result{body: body}, err
	})

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, ctx.Err().Error())
		return nil, ctx.Err()
	case res := <-ch:
		span.SetAttributes(attribute.Bool(telemetry.FetchSharedKey, res.Shared))
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			return nil, res.Err
		}
		body := res.Val.(result).body
		span.SetStatus(codes.Ok, "")
		return body, nil
	}
}

func (f *Fetcher) do(ctx context.Context, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", target, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", target, err)
	}

	f.logger.Debug().
		Str(xglog.FieldEvent, "fetch.response").
		Str(xglog.FieldURL, target).
		Int(xglog.FieldStatusCode, resp.StatusCode).
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("fetch response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	return body, nil
}

func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("fetch: invalid url %q: scheme and host required", rawURL)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet]
	}
	return s
}
