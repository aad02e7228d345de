// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/buckets/internal/catalog"
)

const defaultFailureThreshold = 3

// SourceReporter exposes load status of remote buckets.
type SourceReporter interface {
	SourceStatuses() []catalog.SourceStatus
}

// SourceChecker probes the remote sources behind buckets.
//
// A source that has never loaded and failed FailureThreshold times in a row is
// unhealthy. Any other failing or stale source only degrades the result,
// since its bucket still serves the last good items.
type SourceChecker struct {
	reporter         SourceReporter
	FailureThreshold int
	// MaxAge marks a source stale when its last success is older; 0 disables.
	MaxAge time.Duration

	now func() time.Time
}

func NewSourceChecker(r SourceReporter) *SourceChecker {
	return &SourceChecker{
		reporter:         r,
		FailureThreshold: defaultFailureThreshold,
		now:              time.Now,
	}
}

func (c *SourceChecker) Name() string {
	return "sources"
}

func (c *SourceChecker) Check(_ context.Context) CheckResult {
	statuses := c.reporter.SourceStatuses()
	if len(statuses) == 0 {
		return CheckResult{Status: StatusHealthy, Message: "no remote sources"}
	}

	var down, degraded []string
	for _, st := range statuses {
		switch {
		case st.LastSuccess.IsZero() && st.Failures >= c.FailureThreshold:
			down = append(down, st.Name)
		case st.Failures > 0:
			degraded = append(degraded, st.Name)
		case c.MaxAge > 0 && !st.LastSuccess.IsZero() && c.now().Sub(st.LastSuccess) > c.MaxAge:
			degraded = append(degraded, st.Name)
		}
	}

	switch {
	case len(down) > 0:
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("never loaded: %s", strings.Join(down, ", ")),
		}
	case len(degraded) > 0:
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("failing or stale: %s", strings.Join(degraded, ", ")),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d sources ok", len(statuses)),
	}
}
