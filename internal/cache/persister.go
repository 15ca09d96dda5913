package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
)

// Persister writes every published session state to the cache.
type Persister struct {
	cache     SessionCache
	store     *session.Store
	sessionID string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewPersister(cache SessionCache, store *session.Store, sessionID string, logger *zap.Logger) *Persister {
	return &Persister{
		cache:     cache,
		store:     store,
		sessionID: sessionID,
		timeout:   time.Second,
		logger:    logger,
	}
}

// Restore loads the snapshot for the session, or a fresh state on a miss.
func Restore(ctx context.Context, cache SessionCache, sessionID string, logger *zap.Logger) *session.State {
	snapshot, err := cache.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("session snapshot unavailable", zap.String("session_id", sessionID), zap.Error(err))
		}
		return session.NewState()
	}
	return session.Rehydrate(snapshot)
}

// Run persists until ctx is done. Intermediate states may be skipped; the
// last published one is always written.
func (p *Persister) Run(ctx context.Context) {
	updates, cancel := p.store.Subscribe()
	defer cancel()

	for {
		select {
		case state, ok := <-updates:
			if !ok {
				return
			}
			p.save(state)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Persister) save(state *session.State) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	// an expired session must not come back after a restart
	if state.IsSessionExpired {
		if err := p.cache.Delete(ctx, p.sessionID); err != nil {
			p.logger.Error("drop expired session failed", zap.String("session_id", p.sessionID), zap.Error(err))
		}
		return
	}
	if err := p.cache.Set(ctx, p.sessionID, state); err != nil {
		p.logger.Error("persist session failed", zap.String("session_id", p.sessionID), zap.Error(err))
	}
}
