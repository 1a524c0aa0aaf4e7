package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "uploads/7/1_contract.txt"
	require.NoError(t, storage.Put(ctx, key, []byte("hello")))

	data, err := storage.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// overwrite
	require.NoError(t, storage.Put(ctx, key, []byte("updated")))
	data, err = storage.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)

	require.NoError(t, storage.Delete(ctx, key))
	_, err = storage.Get(ctx, key)
	require.ErrorIs(t, err, ErrObjectNotFound)

	// deleting a missing key is not an error
	require.NoError(t, storage.Delete(ctx, key))
}

func TestLocalStorage_List(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "uploads/1/a.txt", []byte("a")))
	require.NoError(t, storage.Put(ctx, "uploads/1/b.txt", []byte("b")))
	require.NoError(t, storage.Put(ctx, "datasets/1/dataset.csv", []byte("c")))

	objects, err := storage.List(ctx, "uploads/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, obj := range objects {
		assert.Contains(t, obj.Key, "uploads/1/")
		assert.WithinDuration(t, time.Now(), obj.ModTime, time.Minute)
	}

	// missing prefix lists nothing
	objects, err = storage.List(ctx, "nothing-here/")
	require.NoError(t, err)
	assert.Empty(t, objects)
}
