package lock

import (
	"context"
	"errors"
	"fmt"
	"staybook/shared/constant"
	"sync"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisKeyPrefix     = "lock"
	redisRetryInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only while it still carries our token.
var releaseScript = goRedis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	ttl    time.Duration
}

// NewRedis returns a Locker whose locks expire after ttl if their holder never releases them.
func NewRedis(client *goRedis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := redisKeyPrefix + constant.Colon + key
	token := uuid.NewString()

	ticker := time.NewTicker(redisRetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Error().Err(err).Str("key", redisKey).Msg("failed to acquire redis lock")

			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once

	return func(ctx context.Context) (err error) {
		once.Do(func() {
			err = releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err()
			if err != nil {
				log.Error().Err(err).Str("key", redisKey).Msg("failed to release redis lock")

				err = fmt.Errorf("failed to release lock %s: %w", key, err)
			}
		})

		return err
	}, nil
}
