package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRemove(t *testing.T) {
	s := openTestStore(t)

	products := []model.Product{{ID: "p1", Name: "Soap", Stock: 10}}
	require.NoError(t, s.Set(KeyProducts, products))

	var got []model.Product
	found, err := s.Get(KeyProducts, &got)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "Soap", got[0].Name)

	require.NoError(t, s.Remove(KeyProducts))
	found, err = s.Get(KeyProducts, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var v string
	found, err := s.Get("never-written", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetIsLastWriteWins(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set(KeyAuthToken, "first"))
	require.NoError(t, s.Set(KeyAuthToken, "second"))

	var token string
	found, err := s.Get(KeyAuthToken, &token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", token)
}

func TestPendingOpsKeepArrivalOrder(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "p1", Stock: 5, QueuedAt: time.Now()}))
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpProductDelete, ProductID: "p2", QueuedAt: time.Now()}))
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "p3", Stock: 1, QueuedAt: time.Now()}))

	ops, err := s.PendingOps()
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, "p1", ops[0].ProductID)
	assert.Equal(t, "p2", ops[1].ProductID)
	assert.Equal(t, "p3", ops[2].ProductID)
}

func TestDeletePendingRemovesOnlyGivenKeys(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "p1", Stock: 5}))
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "p2", Stock: 7}))

	entries, err := s.PendingEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// An op arriving after the read survives deletion of the read keys.
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpProductDelete, ProductID: "p3"}))

	require.NoError(t, s.DeletePending(entries[0].Key, entries[1].Key))

	remaining, err := s.PendingOps()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p3", remaining[0].ProductID)

	// New ops still land after the survivor.
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "p4", Stock: 2}))
	remaining, err = s.PendingOps()
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "p4", remaining[1].ProductID)
}

func TestRewritePendingKeepsPosition(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpStockSet, ProductID: "temp_1", Stock: 5}))
	require.NoError(t, s.EnqueuePending(PendingOp{Kind: OpProductDelete, ProductID: "p2"}))

	entries, err := s.PendingEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	op := entries[0].Op
	op.ProductID = "srv-1"
	require.NoError(t, s.RewritePending(entries[0].Key, op))

	ops, err := s.PendingOps()
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "srv-1", ops[0].ProductID)
	assert.Equal(t, "p2", ops[1].ProductID)
}
