package caches

import (
	"context"
	"sync"
	"time"
)

// Projection is a time-bounded snapshot of one read-side collection. Reads
// populate it lazily via the loader on miss or expiry; write-side code forces
// early expiry with Invalidate. There is no automatic invalidation on write.
type Projection[T any] struct {
	mu       sync.RWMutex
	ttl      time.Duration
	value    T
	loadedAt time.Time
	valid    bool

	nowFn func() time.Time
}

func NewProjection[T any](ttl time.Duration) *Projection[T] {
	return &Projection[T]{ttl: ttl, nowFn: time.Now}
}

// Get returns the cached snapshot, loading a fresh one when the slot is
// empty, expired or invalidated. Loader failures are returned to the caller
// and never cached.
func (p *Projection[T]) Get(ctx context.Context, load func(ctx context.Context) (T, error)) (T, error) {
	p.mu.RLock()
	if p.fresh() {
		value := p.value
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another reader may have reloaded while we waited for the write lock.
	if p.fresh() {
		return p.value, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	p.value = value
	p.loadedAt = p.nowFn()
	p.valid = true
	return value, nil
}

// Invalidate forces the next Get to reload.
func (p *Projection[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.valid = false
}

// fresh must be called with at least the read lock held.
func (p *Projection[T]) fresh() bool {
	return p.valid && p.nowFn().Sub(p.loadedAt) < p.ttl
}
