package history_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/history"
	"github.com/stayware/sessionkit/pkg/keyvalue"
	"github.com/stayware/sessionkit/pkg/session"
)

func TestKeyvalueStore_RequiresStore(t *testing.T) {
	require.Panics(t, func() {
		history.NewKeyvalueStore(nil, 10)
	})
}

func TestKeyvalueStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemory()

	first := history.NewKeyvalueStore(kv, 10)
	require.NoError(t, first.StoreBatch(ctx, []session.Event{
		event(session.EventCreated, "s1"),
		event(session.EventInvalidated, "s1"),
	}))

	second := history.NewKeyvalueStore(kv, 10)
	events, err := second.Load(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, session.EventCreated, events[0].Type)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, session.EventInvalidated, events[1].Type)
}

func TestKeyvalueStore_TrimsToCapacity(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemory()
	store := history.NewKeyvalueStore(kv, 2)

	require.NoError(t, store.StoreBatch(ctx, []session.Event{
		event(session.EventCreated, "s1"),
	}))
	require.NoError(t, store.StoreBatch(ctx, []session.Event{
		event(session.EventCreated, "s2"),
		event(session.EventCreated, "s3"),
	}))

	events, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "s2", events[0].SessionID)
	assert.Equal(t, "s3", events[1].SessionID)
}

func TestKeyvalueStore_EmptyLog(t *testing.T) {
	ctx := context.Background()
	store := history.NewKeyvalueStore(keyvalue.NewMemory(), 10)

	events, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestKeyvalueStore_RecoversFromCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemory()
	require.NoError(t, kv.Set(ctx, history.StorageKey, []byte("{not json")))

	store := history.NewKeyvalueStore(kv, 10)

	events, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, store.StoreBatch(ctx, []session.Event{
		event(session.EventCreated, "s1"),
	}))

	events, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
}
