// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import (
	"io"
	"sync"
	"testing"

	"github.com/ManuGH/buckets/internal/topic"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = zerolog.New(io.Discard)

func newRegistry() *topic.Registry {
	return topic.New(topic.WithLogger(quiet))
}

func newBucket[T any](t *testing.T, items []T, opts ...Option) (*Bucket[T], *topic.Registry) {
	t.Helper()
	reg := newRegistry()
	b := New(reg, NewSequence(), "test", items, append([]Option{WithLogger(quiet)}, opts...)...)
	return b, reg
}

// recorder collects every payload published on a bucket's private topic.
type recorder[T any] struct {
	calls [][]Item[T]
}

func (r *recorder[T]) attach(reg *topic.Registry, b *Bucket[T]) {
	reg.Subscribe(b.Topic(), r, func(_ any, payload any) {
		r.calls = append(r.calls, payload.([]Item[T]))
	})
}

func TestNewIndexesWithoutPublishing(t *testing.T) {
	reg := newRegistry()
	seq := NewSequence()

	published := false
	reg.Subscribe("Instance1", nil, func(any, any) { published = true })

	b := New(reg, seq, "letters", []string{"a", "b"}, WithLogger(quiet))

	assert.Equal(t, "Instance1", b.Topic())
	assert.Equal(t, "letters", b.Name())
	assert.False(t, published)
	want := []Item[string]{{0, "a"}, {1, "b"}}
	if diff := cmp.Diff(want, b.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestTopicsAreUniquePerSequence(t *testing.T) {
	reg := newRegistry()
	seq := NewSequence()

	a := New[int](reg, seq, "a", nil, WithLogger(quiet))
	b := New[int](reg, seq, "a", nil, WithLogger(quiet))

	assert.Equal(t, "Instance1", a.Topic())
	assert.Equal(t, "Instance2", b.Topic())
}

func TestIndexIsPure(t *testing.T) {
	b, _ := newBucket(t, []string{"a"})
	it := b.Index("z", 7)

	assert.Equal(t, Item[string]{Index: 7, Data: "z"}, it)
	assert.Equal(t, 1, b.Len())
}

func TestAddAndRemoveScenario(t *testing.T) {
	b, reg := newBucket(t, []string{"a", "b"})
	rec := &recorder[string]{}
	rec.attach(reg, b)

	b.Add("c")
	wantAfterAdd := []Item[string]{{0, "a"}, {1, "b"}, {2, "c"}}
	require.Len(t, rec.calls, 1)
	if diff := cmp.Diff(wantAfterAdd, rec.calls[0]); diff != "" {
		t.Errorf("add payload mismatch (-want +got):\n%s", diff)
	}

	removed := b.Remove(func(it Item[string], _ int) bool { return it.Data == "b" })
	assert.True(t, removed)
	wantAfterRemove := []Item[string]{{0, "a"}, {2, "c"}}
	require.Len(t, rec.calls, 2)
	if diff := cmp.Diff(wantAfterRemove, rec.calls[1]); diff != "" {
		t.Errorf("remove payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantAfterRemove, b.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestAddUsesPreAddLengthSoIndicesRepeatAfterRemove(t *testing.T) {
	b, _ := newBucket[int](t, nil)

	b.Add(10)
	b.Add(11)
	b.Remove(func(it Item[int], _ int) bool { return it.Data == 10 })
	b.Add(12)

	// Add assigns the pre-add length rather than a running counter; survivors
	// keep their indices, so an index can repeat once earlier items were
	// removed. Refresh renumbers.
	assert.Equal(t, []Item[int]{{1, 11}, {1, 12}}, b.Items())
}

func TestAddIndicesAreCallOrder(t *testing.T) {
	b, _ := newBucket[string](t, nil)
	for _, s := range []string{"x", "y", "z"} {
		b.Add(s)
	}
	for i, it := range b.Items() {
		assert.Equal(t, i, it.Index)
	}
}

func TestRemoveFirstMatchOnly(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 2, 3})

	assert.True(t, b.Remove(func(it Item[int], _ int) bool { return it.Data == 2 }))
	assert.Equal(t, []Item[int]{{0, 1}, {2, 2}, {3, 3}}, b.Items())
}

func TestRemoveCriteriaGetsPosition(t *testing.T) {
	b, _ := newBucket(t, []string{"a", "b", "c"})
	b.Remove(func(_ Item[string], pos int) bool { return pos == 0 })
	b.Remove(func(_ Item[string], pos int) bool { return pos == 0 })

	assert.Equal(t, []Item[string]{{2, "c"}}, b.Items())
}

func TestRemoveNoMatchStillPublishes(t *testing.T) {
	b, reg := newBucket(t, []int{1})
	rec := &recorder[int]{}
	rec.attach(reg, b)

	assert.False(t, b.Remove(func(Item[int], int) bool { return false }))
	assert.Len(t, rec.calls, 1)
	assert.Equal(t, 1, b.Len())
}

func TestRemoveOnEmptyPublishesOnce(t *testing.T) {
	b, reg := newBucket[int](t, nil)
	rec := &recorder[int]{}
	rec.attach(reg, b)

	assert.False(t, b.Remove(nil))
	assert.Zero(t, b.Len())
	require.Len(t, rec.calls, 1)
	assert.Empty(t, rec.calls[0])

	assert.False(t, b.Remove(func(Item[int], int) bool { return true }))
	assert.Len(t, rec.calls, 2)
}

func TestRemoveNilClears(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 3})
	assert.True(t, b.Remove(nil))
	assert.Zero(t, b.Len())
}

type todo struct {
	Title string
	Done  bool
}

func TestUpdateMutatesInPlace(t *testing.T) {
	b, reg := newBucket(t, []todo{{Title: "a"}, {Title: "b"}})
	rec := &recorder[todo]{}
	rec.attach(reg, b)

	positions := []int{}
	ran := b.Update(func(d *todo, pos int) {
		d.Done = true
		positions = append(positions, pos)
	})

	assert.True(t, ran)
	assert.Equal(t, []int{0, 1}, positions)
	require.Len(t, rec.calls, 1)
	for _, it := range rec.calls[0] {
		assert.True(t, it.Data.Done)
	}
	for _, d := range b.Raw(nil, func(todo) bool { return true }) {
		assert.True(t, d.Done)
	}

	b.Notify("")
	require.Len(t, rec.calls, 2)
	assert.True(t, rec.calls[1][0].Data.Done)
}

func TestUpdateNilStillPublishes(t *testing.T) {
	b, reg := newBucket(t, []int{1})
	rec := &recorder[int]{}
	rec.attach(reg, b)

	assert.False(t, b.Update(nil))
	assert.Len(t, rec.calls, 1)
	assert.Equal(t, []Item[int]{{0, 1}}, b.Items())
}

func TestRefreshReplacesAndReindexes(t *testing.T) {
	b, reg := newBucket(t, []string{"a", "b", "c"})
	rec := &recorder[string]{}
	rec.attach(reg, b)

	b.Refresh([]string{"x", "y"})
	assert.Equal(t, []Item[string]{{0, "x"}, {1, "y"}}, b.Items())
	assert.Len(t, rec.calls, 1)
}

func TestRefreshNilReindexesCurrent(t *testing.T) {
	b, _ := newBucket(t, []string{"a", "b", "c"})
	b.Remove(func(it Item[string], _ int) bool { return it.Data == "a" })
	require.Equal(t, []Item[string]{{1, "b"}, {2, "c"}}, b.Items())

	b.Refresh(nil)
	assert.Equal(t, []Item[string]{{0, "b"}, {1, "c"}}, b.Items())
}

func TestRefreshIndexedKeepsIndices(t *testing.T) {
	b, reg := newBucket(t, []string{"a", "b", "c"})
	rec := &recorder[string]{}
	rec.attach(reg, b)

	b.Remove(func(it Item[string], _ int) bool { return it.Data == "a" })
	b.RefreshIndexed(nil)
	assert.Equal(t, []Item[string]{{1, "b"}, {2, "c"}}, b.Items())

	b.RefreshIndexed([]Item[string]{{9, "q"}})
	assert.Equal(t, []Item[string]{{9, "q"}}, b.Items())
	assert.Len(t, rec.calls, 3)
}

func TestFindAndFindItem(t *testing.T) {
	b, _ := newBucket(t, []string{"a", "b", "b"})

	isB := func(it Item[string], _ int) bool { return it.Data == "b" }
	assert.True(t, b.Find(isB))

	it, ok := b.FindItem(isB)
	assert.True(t, ok)
	assert.Equal(t, Item[string]{1, "b"}, it)

	_, ok = b.FindItem(func(it Item[string], _ int) bool { return it.Data == "z" })
	assert.False(t, ok)

	assert.False(t, b.Find(nil))
	_, ok = b.FindItem(nil)
	assert.False(t, ok)
}

func TestRawDropsZeroValuesByDefault(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 0, 3})
	assert.Equal(t, []int{1, 2, 3}, b.Raw(nil, nil))
}

func TestRawKeepZeroValues(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 0, 3}, WithKeepZeroValues())
	assert.Equal(t, []int{1, 2, 0, 3}, b.Raw(nil, nil))
}

func TestRawWithFilterUsesData(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 0, 3})
	even := b.Raw(nil, func(d int) bool { return d%2 == 0 })
	assert.Equal(t, []int{2, 0}, even)
}

func TestRawOverExplicitItems(t *testing.T) {
	b, _ := newBucket(t, []string{"a"})
	got := b.Raw([]Item[string]{{5, "x"}, {6, ""}}, nil)
	assert.Equal(t, []string{"x"}, got)
}

func TestSerialize(t *testing.T) {
	b, _ := newBucket(t, []int{1, 2, 0, 3})
	out, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", out)
}

func TestSerializeAnyDropsFalsyJSONValues(t *testing.T) {
	b, _ := newBucket(t, []any{"a", "", nil, false, 0.0, map[string]any{}, true})
	out, err := b.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `["a",{},true]`, out)
}

func TestSerializeEmpty(t *testing.T) {
	b, _ := newBucket[string](t, nil)
	out, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestSerializeError(t *testing.T) {
	b, _ := newBucket(t, []any{func() {}})
	_, err := b.Serialize()
	assert.Error(t, err)
}

func TestNotifyEventTypeDoesNotChangePayload(t *testing.T) {
	b, reg := newBucket(t, []int{1})
	rec := &recorder[int]{}
	rec.attach(reg, b)

	b.Notify(EventAdded)
	b.Notify("")
	require.Len(t, rec.calls, 2)
	assert.Equal(t, rec.calls[0], rec.calls[1])
}

func TestConcurrentAddsPublishInMutationOrder(t *testing.T) {
	const (
		workers = 8
		adds    = 20
		trials  = 50
	)

	for trial := 0; trial < trials; trial++ {
		b, _ := newBucket[int](t, nil)

		var (
			mu        sync.Mutex
			lengths   []int
			lastItems []Item[int]
		)
		_, err := b.BindFunc(func(_ any, items []Item[int]) {
			mu.Lock()
			lengths = append(lengths, len(items))
			lastItems = items
			mu.Unlock()
		}, nil)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < adds; i++ {
					b.Add(i)
				}
			}()
		}
		wg.Wait()

		mu.Lock()
		require.Len(t, lengths, workers*adds+1, "trial %d", trial)
		for i := 1; i < len(lengths); i++ {
			require.Equal(t, lengths[i-1]+1, lengths[i], "trial %d: delivery %d out of order", trial, i)
		}
		require.Equal(t, b.Items(), lastItems, "trial %d", trial)
		mu.Unlock()
	}
}
