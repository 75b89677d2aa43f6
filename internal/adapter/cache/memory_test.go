package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, reset, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)

	second, secondReset, _ := store.Increment(ctx, "k", time.Minute)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, reset, secondReset)
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Increment(ctx, "a", time.Minute)
	count, _, _ := store.Increment(ctx, "b", time.Minute)

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, store.ItemCount())
}

func TestMemoryStore_ResetsAfterWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Increment(ctx, "k", time.Minute)
	store.Increment(ctx, "k", time.Minute)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	count, reset, _ := store.Increment(ctx, "k", time.Minute)

	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(3*time.Minute), reset)
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			store.Increment(ctx, "k", time.Minute)
		}()
	}

	wg.Wait()

	count, _, _ := store.Increment(ctx, "k", time.Minute)
	assert.Equal(t, 51, count)
}
