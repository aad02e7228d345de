// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Find reports whether any item matches criteria. A nil criteria matches nothing.
func (b *Bucket[T]) Find(criteria Criteria[T]) bool {
	_, ok := b.FindItem(criteria)
	return ok
}

// FindItem returns the first item matching criteria in scan order.
func (b *Bucket[T]) FindItem(criteria Criteria[T]) (Item[T], bool) {
	if criteria == nil {
		return Item[T]{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if criteria(it, i) {
			return it, true
		}
	}
	return Item[T]{}, false
}

// Raw projects items back to their data. A nil items means the bucket's
// current items. With keep, only data for which keep returns true is
// returned. Without keep, zero-valued data is dropped unless the bucket was
// built WithKeepZeroValues.
func (b *Bucket[T]) Raw(items []Item[T], keep func(T) bool) []T {
	if items == nil {
		items = b.Items()
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		switch {
		case keep != nil:
			if !keep(it.Data) {
				continue
			}
		case !b.opts.keepZero && isZero(it.Data):
			continue
		}
		out = append(out, it.Data)
	}
	return out
}

// Serialize returns the JSON array of Raw(nil, nil).
func (b *Bucket[T]) Serialize() (string, error) {
	data, err := b.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalJSON implements json.Marshaler with the same output as Serialize.
func (b *Bucket[T]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(b.Raw(nil, nil))
	if err != nil {
		return nil, fmt.Errorf("serialize bucket %q: %w", b.name, err)
	}
	return data, nil
}

func isZero[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	return rv.IsZero()
}
