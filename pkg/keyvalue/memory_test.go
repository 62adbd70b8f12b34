package keyvalue_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/keyvalue"
)

func TestMemory_RoundTrip(t *testing.T) {
	store := keyvalue.NewMemory()
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		err := store.Set(ctx, "session_info", []byte(`{"id":"abc"}`))
		require.NoError(t, err)

		got, err := store.Get(ctx, "session_info")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":"abc"}`), got)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, keyvalue.ErrNotFound)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v1")))
		require.NoError(t, store.Set(ctx, "k", []byte("v2")))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		err := store.Set(ctx, "", []byte("v"))
		assert.ErrorIs(t, err, keyvalue.ErrInvalidKey)

		_, err = store.Get(ctx, "")
		assert.ErrorIs(t, err, keyvalue.ErrInvalidKey)
	})
}

func TestMemory_Delete(t *testing.T) {
	store := keyvalue.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, keyvalue.ErrNotFound)

	t.Run("delete absent is no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})
}

func TestMemory_DataIsolation(t *testing.T) {
	store := keyvalue.NewMemory()
	ctx := context.Background()

	original := []byte("immutable")
	require.NoError(t, store.Set(ctx, "k", original))

	// Mutating the slice we passed in must not affect the stored value
	original[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), got)

	// Mutating the returned slice must not affect future reads
	got[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), again)
}

func TestMemory_Concurrency(t *testing.T) {
	store := keyvalue.NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, "shared", []byte{byte(n)})
				_, _ = store.Get(ctx, "shared")
				_ = store.Delete(ctx, "shared")
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), 1)
}
