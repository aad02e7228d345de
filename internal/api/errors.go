// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/buckets/internal/catalog"
	"github.com/ManuGH/buckets/internal/fetch"
	xglog "github.com/ManuGH/buckets/internal/log"
)

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := classify(err)
	if code >= http.StatusInternalServerError {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "api.request_failed").
			Msg("request failed")
	}
	writeJSON(w, code, errorBody{
		Error:     kind,
		Detail:    err.Error(),
		RequestID: xglog.RequestIDFromContext(r.Context()),
	})
}

func classify(err error) (int, string) {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrNoSource):
		return http.StatusConflict, "no_source"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &se),
		errors.Is(err, fetch.ErrInvalidJSON),
		errors.Is(err, fetch.ErrNotArray),
		errors.Is(err, fetch.ErrPathNotFound):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

var errBadRequest = errors.New("bad request")
