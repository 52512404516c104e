package assets

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo caches one value per key for the lifetime of a session. Concurrent
// Get calls for a missing key share one load. Only successful loads are
// stored; entries are never evicted.
type Memo[T any] struct {
	mu     sync.RWMutex
	values map[string]T
	group  singleflight.Group
}

// NewMemo returns an empty memo.
func NewMemo[T any]() *Memo[T] {
	return &Memo[T]{values: make(map[string]T)}
}

// Peek returns the cached value for key without loading.
func (m *Memo[T]) Peek(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Put stores v under key. Re-storing a key replaces its value.
func (m *Memo[T]) Put(key string, v T) {
	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *Memo[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Get returns the value for key, calling load on a miss. The load runs
// detached from the caller's cancellation and its result is stored even if
// every waiting caller has returned. Get itself returns ctx.Err() as soon as
// ctx is done.
func (m *Memo[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := m.Peek(key); ok {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		if v, ok := m.Peek(key); ok {
			return v, nil
		}
		v, err := load(detached)
		if err != nil {
			return v, err
		}
		m.Put(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
