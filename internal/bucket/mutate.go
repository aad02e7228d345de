// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

// Add appends item with Index equal to the length before the call.
func (b *Bucket[T]) Add(item T) {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	b.items = append(b.items, b.Index(item, len(b.items)))
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.emit(EventAdded, snap)
}

// Remove deletes the first item matching criteria and reports whether one was
// removed. A nil criteria clears the bucket. The bucket publishes in every
// case, including when nothing matched.
func (b *Bucket[T]) Remove(criteria Criteria[T]) bool {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	removed := false
	if criteria == nil {
		removed = len(b.items) > 0
		b.items = []Item[T]{}
	} else {
		for i, it := range b.items {
			if criteria(it, i) {
				out := make([]Item[T], 0, len(b.items)-1)
				out = append(out, b.items[:i]...)
				b.items = append(out, b.items[i+1:]...)
				removed = true
				break
			}
		}
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.emit(EventRemoved, snap)
	return removed
}

// Update calls fn on every item's data in order so it can modify it in place.
// A nil fn changes nothing but still publishes. It reports whether fn ran.
func (b *Bucket[T]) Update(fn func(data *T, position int)) bool {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	if fn != nil {
		for i := range b.items {
			fn(&b.items[i].Data, i)
		}
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.emit(EventUpdated, snap)
	return fn != nil
}

// Refresh replaces the items with items (or keeps the current data when items
// is nil) and re-indexes them 0..n-1. It is the entry point for data loaded
// from elsewhere.
func (b *Bucket[T]) Refresh(items []T) {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	if items == nil {
		items = make([]T, len(b.items))
		for i, it := range b.items {
			items[i] = it.Data
		}
	}
	b.indexAllLocked(items)
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.emit(EventRefreshed, snap)
}

// RefreshIndexed replaces the items with already indexed items and keeps their
// indices as given. A nil items keeps the current items untouched.
func (b *Bucket[T]) RefreshIndexed(items []Item[T]) {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	if items != nil {
		b.items = make([]Item[T], len(items))
		copy(b.items, items)
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.emit(EventRefreshed, snap)
}
