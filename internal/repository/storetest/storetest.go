// Package storetest holds the behavioral contract every repository.Store must satisfy
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/repository"
)

// Run exercises store against the repository.Store contract
func Run(t *testing.T, store repository.Store) {
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Create and Get", func(t *testing.T) {
		id := prefix + "-a"
		created, err := store.Create(ctx, repository.Record{
			Kind:      repository.KindApplication,
			ID:        id,
			Data:      []byte(`{"status":"Submitted"}`),
			UpdatedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.Version)

		got, err := store.Get(ctx, repository.KindApplication, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, repository.KindApplication, got.Kind)
		assert.Equal(t, int64(1), got.Version)
		assert.JSONEq(t, `{"status":"Submitted"}`, string(got.Data))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, repository.KindApplication, prefix+"-missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Create Duplicate", func(t *testing.T) {
		rec := repository.Record{Kind: repository.KindJob, ID: prefix + "-dup", Data: []byte(`{}`), UpdatedAt: now}
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)

		_, err = store.Create(ctx, rec)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("Kinds Are Isolated", func(t *testing.T) {
		id := prefix + "-shared"
		_, err := store.Create(ctx, repository.Record{Kind: repository.KindContract, ID: id, Data: []byte(`{"k":"contract"}`), UpdatedAt: now})
		require.NoError(t, err)
		_, err = store.Create(ctx, repository.Record{Kind: repository.KindPayment, ID: id, Data: []byte(`{"k":"payment"}`), UpdatedAt: now})
		require.NoError(t, err)

		got, err := store.Get(ctx, repository.KindPayment, id)
		require.NoError(t, err)
		assert.JSONEq(t, `{"k":"payment"}`, string(got.Data))
	})

	t.Run("Update With Expected Version", func(t *testing.T) {
		id := prefix + "-u"
		rec, err := store.Create(ctx, repository.Record{Kind: repository.KindContract, ID: id, Data: []byte(`{"n":1}`), UpdatedAt: now})
		require.NoError(t, err)

		rec.Data = []byte(`{"n":2}`)
		updated, err := store.Update(ctx, rec, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)

		got, err := store.Get(ctx, repository.KindContract, id)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
		assert.JSONEq(t, `{"n":2}`, string(got.Data))
	})

	t.Run("Update Stale Version", func(t *testing.T) {
		id := prefix + "-stale"
		rec, err := store.Create(ctx, repository.Record{Kind: repository.KindContract, ID: id, Data: []byte(`{"n":1}`), UpdatedAt: now})
		require.NoError(t, err)

		rec.Data = []byte(`{"n":2}`)
		_, err = store.Update(ctx, rec, 1)
		require.NoError(t, err)

		rec.Data = []byte(`{"n":3}`)
		_, err = store.Update(ctx, rec, 1)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)

		got, err := store.Get(ctx, repository.KindContract, id)
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":2}`, string(got.Data))
	})

	t.Run("Update Non-Existent", func(t *testing.T) {
		_, err := store.Update(ctx, repository.Record{Kind: repository.KindContract, ID: prefix + "-nope", Data: []byte(`{}`)}, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Concurrent Updates Single Winner", func(t *testing.T) {
		id := prefix + "-race"
		rec, err := store.Create(ctx, repository.Record{Kind: repository.KindPayment, ID: id, Data: []byte(`{}`), UpdatedAt: now})
		require.NoError(t, err)

		const writers = 8
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			wins     int
			conflict int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				r := rec
				r.Data = []byte(fmt.Sprintf(`{"writer":%d}`, n))
				_, err := store.Update(ctx, r, rec.Version)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case assert.ErrorIs(t, err, repository.ErrVersionConflict):
					conflict++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, writers-1, conflict)
	})

	t.Run("List Ordered By ID", func(t *testing.T) {
		ids := []string{prefix + "-l2", prefix + "-l1", prefix + "-l3"}
		for _, id := range ids {
			_, err := store.Create(ctx, repository.Record{Kind: repository.KindNotification, ID: id, Data: []byte(`{}`), UpdatedAt: now})
			require.NoError(t, err)
		}

		recs, err := store.List(ctx, repository.KindNotification)
		require.NoError(t, err)

		var got []string
		for _, r := range recs {
			if len(r.ID) > len(prefix) && r.ID[:len(prefix)] == prefix {
				got = append(got, r.ID)
			}
		}
		assert.Equal(t, []string{prefix + "-l1", prefix + "-l2", prefix + "-l3"}, got)
	})
}
