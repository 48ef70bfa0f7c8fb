package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore holds single-use OAuth state nonces. A nonce is consumed on
// first read, so a replayed callback never matches.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Put(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, s.key(state), "1", stateTTL).Err(); err != nil {
		return fmt.Errorf("state put: %w", err)
	}
	return nil
}

// Take consumes the state and reports whether it existed.
func (s *StateStore) Take(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, s.key(state)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("state take: %w", err)
	}
	return true, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
