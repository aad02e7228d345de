// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ManuGH/buckets/internal/api/middleware"
	"github.com/ManuGH/buckets/internal/bucket"
	"github.com/ManuGH/buckets/internal/telemetry"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Infos())
}

// bucketFor resolves {name} and tags the request span with it.
func (s *Server) bucketFor(w http.ResponseWriter, r *http.Request) (*bucket.Bucket[any], bool) {
	b, err := s.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	middleware.AddSpanAttributes(r, telemetry.BucketAttributes(b.Name(), b.Topic(), b.Len())...)
	return b, true
}

func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}
	out, err := b.Serialize()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.Items())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}

	var item any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&item); err != nil {
		writeError(w, r, fmt.Errorf("%w: decode item: %v", errBadRequest, err))
		return
	}

	b.Add(item)
	writeJSON(w, http.StatusCreated, b.Items())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: index must be an integer", errBadRequest))
		return
	}

	removed := b.Remove(func(it bucket.Item[any], _ int) bool {
		return it.Index == index
	})
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:  "not_found",
			Detail: fmt.Sprintf("no item with index %d", index),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}
	b.Remove(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b, ok := s.bucketFor(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Refresh(r.Context(), b.Name()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b.Items())
}
