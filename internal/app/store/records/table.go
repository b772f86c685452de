package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/thinkedge/internal/app/system/kv"
)

// Record is implemented by every model stored in a collection.
type Record interface {
	RecordID() string
}

// Table is a typed handle on one collection key.
type Table[T Record] struct {
	s    *Store
	key  string
	seed func() []T
}

func (t Table[T]) name() string { return t.key }

// All returns the stored array, or the seeded default when the key has
// never been written. Malformed stored data is returned as an error and is
// not repaired.
func (t Table[T]) All(ctx context.Context) ([]T, error) {
	b, err := t.s.kv.Get(ctx, t.key)
	if errors.Is(err, kv.ErrNotFound) {
		return t.seed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.key, err)
	}
	// An empty value reads as unset.
	if len(b) == 0 {
		return t.seed(), nil
	}

	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Replace overwrites the whole collection with items.
func (t Table[T]) Replace(ctx context.Context, items []T) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.put(ctx, items)
}

func (t Table[T]) put(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key, err)
	}
	if err := t.s.kv.Put(ctx, t.key, b); err != nil {
		return fmt.Errorf("put %s: %w", t.key, err)
	}
	return nil
}

// Find returns the record with the given id or ErrNotFound.
func (t Table[T]) Find(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := t.All(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", t.key, id, ErrNotFound)
}

// Filter returns the records for which keep reports true, in stored order.
func (t Table[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := t.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Update runs fn over the current array and persists what it returns.
// fn must not call back into the same Store's mutating helpers.
// If fn returns an error nothing is written.
func (t Table[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	items, err := t.All(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return t.put(ctx, next)
}

// Upsert replaces the record with the same id in place, or appends it.
func (t Table[T]) Upsert(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return ErrEmptyID
	}
	return t.Update(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].RecordID() == rec.RecordID() {
				items[i] = rec
				return items, nil
			}
		}
		return append(items, rec), nil
	})
}

// Prepend inserts rec at the front of the collection (newest first).
func (t Table[T]) Prepend(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return ErrEmptyID
	}
	return t.Update(ctx, func(items []T) ([]T, error) {
		return append([]T{rec}, items...), nil
	})
}

// Delete removes the record with the given id. It reports whether a record
// was removed; a missing id is not an error.
func (t Table[T]) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := t.Update(ctx, func(items []T) ([]T, error) {
		out := items[:0]
		for _, it := range items {
			if it.RecordID() == id {
				removed = true
				continue
			}
			out = append(out, it)
		}
		return out, nil
	})
	return removed, err
}

// raw returns the stored bytes untouched, even when they no longer
// decode. An unwritten key yields the encoded seed.
func (t Table[T]) raw(ctx context.Context) ([]byte, error) {
	b, err := t.s.kv.Get(ctx, t.key)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("get %s: %w", t.key, err)
	}
	items, err := t.All(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(items)
}

func (t Table[T]) seedIfMissing(ctx context.Context) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	_, err := t.s.kv.Get(ctx, t.key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return false, err
	}
	return true, t.put(ctx, t.seed())
}
