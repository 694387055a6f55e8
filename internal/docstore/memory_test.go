package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetAndGetOne(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	err := store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Cement", "balance": 5.0}, false)
	require.NoError(t, err)

	doc, err := store.GetOne(ctx, CollectionItems, "i1")
	require.NoError(t, err)
	assert.Equal(t, "i1", doc.ID)
	assert.Equal(t, "Cement", doc.Fields["name"])

	_, err = store.GetOne(ctx, CollectionItems, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySetReplaceVersusMerge(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Cement", "unit": "bag"}, false))
	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"balance": 7.0}, true))

	doc, err := store.GetOne(ctx, CollectionItems, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Cement", doc.Fields["name"])
	assert.Equal(t, 7.0, doc.Fields["balance"])

	// A non-merge set replaces the whole body.
	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Steel"}, false))
	doc, err = store.GetOne(ctx, CollectionItems, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Steel", doc.Fields["name"])
	assert.NotContains(t, doc.Fields, "balance")
}

func TestMemoryDeleteIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Cement"}, false))
	require.NoError(t, store.Delete(ctx, CollectionItems, "i1"))
	require.NoError(t, store.Delete(ctx, CollectionItems, "i1"))

	_, err := store.GetOne(ctx, CollectionItems, "i1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListOrdersByID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Set(ctx, CollectionItems, id, map[string]any{"id": id}, false))
	}

	docs, err := store.List(ctx, CollectionItems)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "c", docs[2].ID)
}

func TestMemoryListIsolatesSnapshots(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Cement"}, false))

	docs, err := store.List(ctx, CollectionItems)
	require.NoError(t, err)
	docs[0].Fields["name"] = "mutated"

	doc, err := store.GetOne(ctx, CollectionItems, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Cement", doc.Fields["name"])
}

func TestMemoryRunBatch(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionItems, "old", map[string]any{"name": "Old"}, false))

	err := store.RunBatch(ctx, []BatchOp{
		{Kind: OpSet, Collection: CollectionItems, ID: "i1", Fields: map[string]any{"name": "Cement"}},
		{Kind: OpSet, Collection: CollectionProductionLogs, ID: "l1", Fields: map[string]any{"quantity": 5.0}},
		{Kind: OpDelete, Collection: CollectionItems, ID: "old"},
	})
	require.NoError(t, err)

	_, err = store.GetOne(ctx, CollectionItems, "i1")
	require.NoError(t, err)
	_, err = store.GetOne(ctx, CollectionProductionLogs, "l1")
	require.NoError(t, err)
	_, err = store.GetOne(ctx, CollectionItems, "old")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRunBatchRejectsUnknownOp(t *testing.T) {
	store := NewMemory()
	err := store.RunBatch(context.Background(), []BatchOp{{Kind: OpKind("bogus"), Collection: CollectionItems, ID: "x"}})
	require.Error(t, err)
}

func TestMemoryWatchNotifiesOnChange(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	ch, cancel := store.Watch(CollectionItems)
	defer cancel()

	require.NoError(t, store.Set(ctx, CollectionItems, "i1", map[string]any{"name": "Cement"}, false))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	// Notifications coalesce while the channel is full.
	require.NoError(t, store.Set(ctx, CollectionItems, "i2", nil, false))
	require.NoError(t, store.Delete(ctx, CollectionItems, "i1"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a coalesced notification")
	}
}

func TestMemoryWatchScopedToCollection(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	ch, cancel := store.Watch(CollectionOrders)
	defer cancel()

	require.NoError(t, store.Set(ctx, CollectionItems, "i1", nil, false))

	select {
	case <-ch:
		t.Fatal("unexpected notification for another collection")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type entity struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
	}

	fields, err := Encode(entity{Name: "Cement", Balance: 4})
	require.NoError(t, err)
	assert.Equal(t, "Cement", fields["name"])

	var out entity
	require.NoError(t, Decode(Document{ID: "i1", Fields: fields}, &out))
	assert.Equal(t, entity{Name: "Cement", Balance: 4}, out)
}
