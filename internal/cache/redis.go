package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/session-service/internal/session"
	"github.com/redis/go-redis/v9"
)

// Snapshot hash fields.
const (
	fieldState   = "state"
	fieldToken   = "token"
	fieldSavedAt = "saved_at"
)

// anonymousTTL bounds snapshots of sessions that never got a cart token.
const anonymousTTL = 30 * time.Minute

// RedisCache keeps one hash per session. A session holding a cart token lives
// as long as the token does; one without a token is kept briefly.
type RedisCache struct {
	client   *redis.Client
	tokenTTL time.Duration
	now      func() time.Time
}

func NewRedisCache(client *redis.Client, tokenTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, tokenTTL: tokenTTL, now: time.Now}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) (*session.State, error) {
	data, err := r.client.HGet(ctx, sessionKey(sessionID), fieldState).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget failed: %w", err)
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &state, nil
}

// Set replaces the snapshot and resets its expiry in one transaction.
func (r *RedisCache) Set(ctx context.Context, sessionID string, state *session.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	key := sessionKey(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldState, data,
			fieldToken, state.Token,
			fieldSavedAt, r.now().UTC().Format(time.RFC3339))
		pipe.Expire(ctx, key, r.ttlFor(state))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) ttlFor(state *session.State) time.Duration {
	if state.Token == "" {
		return min(anonymousTTL, r.tokenTTL)
	}
	return r.tokenTTL
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}
