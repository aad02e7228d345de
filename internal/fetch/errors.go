// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON is returned by Decode for a body that is not JSON.
	ErrInvalidJSON = errors.New("fetch: invalid json")
	// ErrPathNotFound is returned by Decode when the result path selects nothing.
	ErrPathNotFound = errors.New("fetch: result path not found")
	// ErrNotArray is returned by Decode when the selected value is not an array.
	ErrNotArray = errors.New("fetch: result is not an array")
	// ErrInvalidInterval is returned by Poll for a non-positive interval.
	ErrInvalidInterval = errors.New("fetch: poll interval must be positive")
)

// StatusError is returned by Get for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}
