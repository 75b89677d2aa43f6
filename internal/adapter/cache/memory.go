package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskmanager/internal/core/port"
)

type entry struct {
	Count     int
	ResetTime time.Time
}

// MemoryStore keeps counters in process. Suitable for a single instance.
type MemoryStore struct {
	cache *gocache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

var _ port.CounterStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (m *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := m.now()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if found, ok := m.cache.Get(key); ok {
		current := found.(entry)

		if now.Before(current.ResetTime) {
			current.Count++
			m.cache.Set(key, current, current.ResetTime.Sub(now))

			return current.Count, current.ResetTime, nil
		}
	}

	fresh := entry{Count: 1, ResetTime: now.Add(window)}
	m.cache.Set(key, fresh, window)

	return fresh.Count, fresh.ResetTime, nil
}

func (m *MemoryStore) ItemCount() int {
	return m.cache.ItemCount()
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
