package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestBackend_PrefixOperations(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = backend.WriteBatch(func(set func(entry *badger.Entry) error) error {
		for _, key := range []string{"a:1", "a:2", "a:3", "b:1"} {
			if err := set(badger.NewEntry([]byte(key), []byte("v"))); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	count, err := backend.CountPrefix(ctx, []byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := backend.DeletePrefix(ctx, []byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	count, err = backend.CountPrefix(ctx, []byte("a:"))
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = backend.CountPrefix(ctx, []byte("b:"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	deleted, err = backend.DeletePrefix(ctx, []byte("missing:"))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
