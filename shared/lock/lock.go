// Package lock serialises work on a single key, in process or across processes through redis.
package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"errors"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func(ctx context.Context) error

type Locker interface {
	// Lock blocks until key is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
}
