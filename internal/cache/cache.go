package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/session-service/internal/session"
)

type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*session.State, error)
	Set(ctx context.Context, sessionID string, state *session.State) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
