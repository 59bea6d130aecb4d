package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Collection is a typed JSON view over one kind of a Store
type Collection[T any] struct {
	store Store
	kind  Kind
	id    func(T) string
	clock func() time.Time
}

// NewCollection builds a collection keyed by id
func NewCollection[T any](store Store, kind Kind, id func(T) string) *Collection[T] {
	return &Collection[T]{store: store, kind: kind, id: id, clock: time.Now}
}

// Kind returns the record kind backing the collection
func (c *Collection[T]) Kind() Kind {
	return c.kind
}

// Get loads one entity
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	rec, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(rec.Data, &out); err != nil {
		return out, fmt.Errorf("repository: decode %s %q: %w", c.kind, id, err)
	}
	return out, nil
}

// Create inserts a new entity
func (c *Collection[T]) Create(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", c.kind, err)
	}
	_, err = c.store.Create(ctx, Record{
		Kind:      c.kind,
		ID:        c.id(v),
		Data:      data,
		UpdatedAt: c.clock().UTC(),
	})
	return err
}

// Update loads the entity, applies fn and saves it with a compare-and-set on
// the loaded version. An error from fn aborts without writing
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var v T
	rec, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, fmt.Errorf("repository: decode %s %q: %w", c.kind, id, err)
	}
	if err := fn(&v); err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("repository: encode %s: %w", c.kind, err)
	}
	expected := rec.Version
	rec.Data = data
	rec.UpdatedAt = c.clock().UTC()
	if _, err := c.store.Update(ctx, rec, expected); err != nil {
		return v, err
	}
	return v, nil
}

// List returns entities accepted by keep, or all when keep is nil
func (c *Collection[T]) List(ctx context.Context, keep func(T) bool) ([]T, error) {
	recs, err := c.store.List(ctx, c.kind)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return nil, fmt.Errorf("repository: decode %s %q: %w", c.kind, rec.ID, err)
		}
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Find returns the first entity accepted by keep
func (c *Collection[T]) Find(ctx context.Context, keep func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List(ctx, keep)
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}
	return items[0], true, nil
}
