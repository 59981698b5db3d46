package database

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), 0))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = store.Get(ctx, "missing")
	assert.Equal(t, ErrKeyNotFound, err)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), 30*time.Millisecond))

	_, err := store.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = store.Get(ctx, "short")
	assert.Equal(t, ErrKeyNotFound, err)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Absent key comes in as nil.
	err := store.Update(ctx, "counter", 0, func(current []byte) ([]byte, error) {
		assert.Nil(t, current)
		return []byte("1"), nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	// Returning nil deletes the key.
	err = store.Update(ctx, "counter", 0, func(current []byte) ([]byte, error) {
		assert.Equal(t, []byte("1"), current)
		return nil, nil
	})
	require.NoError(t, err)

	_, err = store.Get(ctx, "counter")
	assert.Equal(t, ErrKeyNotFound, err)
}

func TestMemoryStoreUpdateError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("orig"), 0))

	err := store.Update(ctx, "k", 0, func(current []byte) ([]byte, error) {
		return nil, assert.AnError
	})
	assert.Equal(t, assert.AnError, err)

	// Aborted update leaves the value untouched.
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("orig"), got)
}

func TestMemoryStoreUpdateConcurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", 0, func(current []byte) ([]byte, error) {
				n := 0
				if current != nil {
					var err error
					n, err = strconv.Atoi(string(current))
					if err != nil {
						return nil, err
					}
				}
				return []byte(strconv.Itoa(n + 1)), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(workers), string(got))
}

func TestMemoryStoreIndex(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AddToIndex(ctx, "trip", "LC1"))
	require.NoError(t, store.AddToIndex(ctx, "trip", "LC2"))
	require.NoError(t, store.AddToIndex(ctx, "trip", "LC2")) // duplicate is a no-op

	members, err := store.IndexMembers(ctx, "trip")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"LC1", "LC2"}, members)

	require.NoError(t, store.RemoveFromIndex(ctx, "trip", "LC1"))

	members, err = store.IndexMembers(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"LC2"}, members)

	members, err = store.IndexMembers(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, members)
}
