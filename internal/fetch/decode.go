// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fetch

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode parses body as a JSON array of T. When path is set it is a gjson
// path selecting the array inside the document.
func Decode[T any](body []byte, path string) ([]T, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}

	res := gjson.ParseBytes(body)
	if path != "" {
		res = res.Get(path)
		if !res.Exists() {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, res.Type)
	}

	out := []T{}
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return out, nil
}
