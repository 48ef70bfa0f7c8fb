package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 10 * time.Minute
)

// LoginLimiter throttles repeated failed sign-in attempts per account.
// Key format: login_fail:<lowercased email>. The counter expires after the
// window, so a locked account frees itself without operator action.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client, maxFailures: defaultMaxFailures, window: defaultWindow}
}

// TooMany reports whether the account has exceeded the failure budget.
func (l *LoginLimiter) TooMany(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("limiter get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure increments the failure counter and starts the expiry window
// on the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful sign-in.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login_fail:" + strings.ToLower(email)
}
