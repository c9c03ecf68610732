package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLockKey is the Redis key holding the active run's token.
const RunLockKey = "cyclenotify:run-lock"

// ErrLockHeld is returned when another run holds the lease.
var ErrLockHeld = errors.New("run lock held by another process")

// releaseScript deletes the key only if it still carries our token, so an
// expired lease taken over by another run is not released by mistake.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireRunLock takes the run lease for ttl, tagged with token. The
// returned function releases it.
func (c *Cache) AcquireRunLock(ctx context.Context, token string, ttl time.Duration) (func(context.Context) error, error) {
	ok, err := c.client.SetNX(ctx, RunLockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.client, []string{RunLockKey}, token).Err(); err != nil {
			return fmt.Errorf("release run lock: %w", err)
		}
		return nil
	}
	return release, nil
}
