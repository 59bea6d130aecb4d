package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/repository/storetest"
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, NewStore())
}

func TestMemoryStore_CopyOnRead(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Create(ctx, repository.Record{Kind: repository.KindJob, ID: "job-1", Data: []byte(`{"a":1}`)})
	require.NoError(t, err)

	got, err := store.Get(ctx, repository.KindJob, "job-1")
	require.NoError(t, err)
	got.Data[0] = 'X'

	again, err := store.Get(ctx, repository.KindJob, "job-1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again.Data))
}
