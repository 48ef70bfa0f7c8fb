package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLoginLimiter_BlocksAfterBudget(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewLoginLimiter(client)
	ctx := context.Background()

	blocked, err := limiter.TooMany(ctx, "alice@acme.io")
	if err != nil {
		t.Fatalf("TooMany on empty counter: %v", err)
	}
	if blocked {
		t.Fatalf("fresh account should not be blocked")
	}

	for i := 0; i < defaultMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "alice@acme.io"); err != nil {
			t.Fatalf("RecordFailure %d: %v", i, err)
		}
	}

	blocked, err = limiter.TooMany(ctx, "alice@acme.io")
	if err != nil {
		t.Fatalf("TooMany: %v", err)
	}
	if !blocked {
		t.Fatalf("account should be blocked after %d failures", defaultMaxFailures)
	}

	// Another account is unaffected.
	blocked, _ = limiter.TooMany(ctx, "bob@acme.io")
	if blocked {
		t.Fatalf("unrelated account blocked")
	}
}

func TestLoginLimiter_KeyIsCaseInsensitive(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewLoginLimiter(client)
	ctx := context.Background()

	for i := 0; i < defaultMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "Carol@Acme.IO"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	blocked, err := limiter.TooMany(ctx, "carol@acme.io")
	if err != nil {
		t.Fatalf("TooMany: %v", err)
	}
	if !blocked {
		t.Fatalf("lowercased lookup should hit the same counter")
	}
}

func TestLoginLimiter_ResetClearsCounter(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewLoginLimiter(client)
	ctx := context.Background()

	for i := 0; i < defaultMaxFailures; i++ {
		_ = limiter.RecordFailure(ctx, "dave@acme.io")
	}
	if err := limiter.Reset(ctx, "dave@acme.io"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	blocked, err := limiter.TooMany(ctx, "dave@acme.io")
	if err != nil {
		t.Fatalf("TooMany: %v", err)
	}
	if blocked {
		t.Fatalf("counter should be gone after reset")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewLoginLimiter(client)
	ctx := context.Background()

	for i := 0; i < defaultMaxFailures; i++ {
		_ = limiter.RecordFailure(ctx, "eve@acme.io")
	}

	mr.FastForward(defaultWindow + time.Second)

	blocked, err := limiter.TooMany(ctx, "eve@acme.io")
	if err != nil {
		t.Fatalf("TooMany: %v", err)
	}
	if blocked {
		t.Fatalf("lockout should expire with the window")
	}
}
