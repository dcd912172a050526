package lock

import (
	"context"
	"fmt"
	"sync"
)

type keyLock struct {
	sem  chan struct{}
	refs int
}

type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewMemory() Locker {
	return &memoryLocker{
		locks: map[string]*keyLock{},
	}
}

func (m *memoryLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	m.mu.Lock()

	kl, ok := m.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		m.locks[key] = kl
	}

	kl.refs++
	m.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key, kl)

		return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
	}

	var once sync.Once

	return func(_ context.Context) error {
		once.Do(func() {
			<-kl.sem
			m.release(key, kl)
		})

		return nil
	}, nil
}

func (m *memoryLocker) release(key string, kl *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(m.locks, key)
	}
}
