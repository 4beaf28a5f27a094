package blobstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("RoundTrip", func(t *testing.T) {
		data := []byte("payload")

		require.NoError(t, store.Put(ctx, "blob", data))

		got, err := store.Get(ctx, "blob")
		require.NoError(t, err)
		assert.Equal(t, data, got)

		// Mutating the returned slice must not leak into the store.
		got[0] = 'X'

		again, err := store.Get(ctx, "blob")
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Put(ctx, "run/b", nil))
		require.NoError(t, s.Put(ctx, "run/a", nil))
		require.NoError(t, s.Put(ctx, "other", nil))

		names, err := s.List(ctx, "run/")
		require.NoError(t, err)
		assert.Equal(t, []string{"run/a", "run/b"}, names)
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "gone", []byte("x")))
		require.NoError(t, store.Delete(ctx, "gone"))
		require.NoError(t, store.Delete(ctx, "gone"))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		s := NewMemoryStore()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					name := fmt.Sprintf("blob-%d", i)
					_ = s.Put(ctx, name, []byte{byte(j)})
					_, _ = s.Get(ctx, name)
					_, _ = s.List(ctx, "blob-")
				}
			}(i)
		}
		wg.Wait()

		names, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, names, 8)
	})
}
