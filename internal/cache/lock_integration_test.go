//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gimago/cyclenotify/internal/testutil"
)

func TestIntegrationRunLock(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testutil.RequireEnv(t, "TEST_REDIS_URL"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	c.client.Del(ctx, RunLockKey)

	release, err := c.AcquireRunLock(ctx, "run-a", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := c.AcquireRunLock(ctx, "run-b", time.Minute); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("second acquire = %v, want ErrLockHeld", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	releaseB, err := c.AcquireRunLock(ctx, "run-b", time.Minute)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	defer releaseB(ctx)

	// A stale release from run-a must not drop run-b's lease.
	if err := release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if got := c.client.Get(ctx, RunLockKey).Val(); got != "run-b" {
		t.Errorf("lock token = %q, want run-b", got)
	}
}
