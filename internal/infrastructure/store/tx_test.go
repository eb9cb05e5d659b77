package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx_ReadYourWrites(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway(nil)
	defer g.Close()
	require.NoError(t, g.Set(ctx, "inventory/a", testDoc{Name: "Tomatoes", Stock: 4}))
	require.NoError(t, g.Set(ctx, "inventory/a/batches/old", testDoc{Stock: 4}))

	tx := Begin(g)
	require.NoError(t, tx.Set(ctx, "inventory/b", testDoc{Name: "Basil", Stock: 2}))
	require.NoError(t, tx.Merge(ctx, "inventory/a", map[string]any{"stock": 12}))

	doc, err := tx.Get(ctx, "inventory/a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tomatoes","stock":12}`, string(doc))

	docs, err := tx.List(ctx, "inventory")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// nothing reaches the gateway before Commit
	base, err := g.Get(ctx, "inventory/a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tomatoes","stock":4}`, string(base))
	assert.Equal(t, 1, g.Len("inventory"))

	require.NoError(t, tx.Commit(ctx))

	base, err = g.Get(ctx, "inventory/a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tomatoes","stock":12}`, string(base))
	assert.Equal(t, 2, g.Len("inventory"))
}

func TestTx_DeleteHidesSubtree(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway(nil)
	defer g.Close()
	require.NoError(t, g.Set(ctx, "inventory/a", testDoc{Name: "Tomatoes"}))
	require.NoError(t, g.Set(ctx, "inventory/a/batches/old", testDoc{Stock: 4}))

	tx := Begin(g)
	require.NoError(t, tx.Delete(ctx, "inventory/a"))

	_, err := tx.Get(ctx, "inventory/a/batches/old")
	assert.True(t, IsNotFound(err))
	batches, err := tx.List(ctx, "inventory/a/batches")
	require.NoError(t, err)
	assert.Empty(t, batches)

	require.NoError(t, tx.Set(ctx, "inventory/a/batches/new", testDoc{Stock: 1}))
	batches, err = tx.List(ctx, "inventory/a/batches")
	require.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Contains(t, batches, "new")

	assert.Error(t, tx.Merge(ctx, "inventory/a", map[string]any{"stock": 1}))
}

func TestTx_CommitOnce(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway(nil)
	defer g.Close()

	tx := Begin(g)
	require.NoError(t, tx.Set(ctx, "menu/m1", testDoc{Name: "Soup"}))
	assert.Len(t, tx.Ops(), 1)
	assert.Equal(t, []string{"menu/m1"}, tx.Paths())

	require.NoError(t, tx.Commit(ctx))
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)
	assert.ErrorIs(t, tx.Set(ctx, "menu/m2", testDoc{}), ErrTxDone)
}

func TestTx_FailedCommitAppliesNothing(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway(nil)
	defer g.Close()
	require.NoError(t, g.Set(ctx, "inventory/a", testDoc{Name: "Tomatoes", Stock: 4}))

	tx := Begin(g)
	require.NoError(t, tx.Merge(ctx, "inventory/a", map[string]any{"stock": 6}))
	require.NoError(t, tx.Set(ctx, "transactions/t1", testDoc{Name: "receipt"}))

	// a concurrent delete makes the buffered merge fail at commit time
	require.NoError(t, g.Delete(ctx, "inventory/a"))

	err := tx.Commit(ctx)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, g.Len("transactions"))
}
