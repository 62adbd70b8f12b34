package keyvalue_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/keyvalue"
)

func TestFile_RoundTrip(t *testing.T) {
	store, err := keyvalue.NewFile(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "device_fingerprint", []byte("a1b2c3")))

	got, err := store.Get(ctx, "device_fingerprint")
	require.NoError(t, err)
	assert.Equal(t, []byte("a1b2c3"), got)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, keyvalue.ErrNotFound)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("first")))
		require.NoError(t, store.Set(ctx, "k", []byte("second")))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("delete absent is no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := keyvalue.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "session_info", []byte("payload")))

	// A fresh store over the same directory sees the value
	second, err := keyvalue.NewFile(dir)
	require.NoError(t, err)

	got, err := second.Get(ctx, "session_info")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestFile_RejectsUnsafeKeys(t *testing.T) {
	store, err := keyvalue.NewFile(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	for _, key := range []string{
		"",
		"../escape",
		"a/b",
		"..",
		".hidden",
		"with space",
	} {
		assert.ErrorIs(t, store.Set(ctx, key, []byte("v")), keyvalue.ErrInvalidKey, "key %q", key)
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, keyvalue.ErrInvalidKey, "key %q", key)
	}
}

func TestFile_Permissions(t *testing.T) {
	dir := t.TempDir()
	store, err := keyvalue.NewFile(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "session_info", []byte("secret")))

	info, err := os.Stat(filepath.Join(dir, "session_info"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_RequiresBaseDir(t *testing.T) {
	_, err := keyvalue.NewFile("")
	assert.Error(t, err)
}
