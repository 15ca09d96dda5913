package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store owns the current State. Dispatch is the only writer; any number of
// goroutines may read, subscribe or wait.
type Store struct {
	mu      sync.RWMutex
	state   *State
	changed chan struct{}
	subs    map[uint64]chan *State
	nextSub uint64
	logger  *zap.Logger
}

func NewStore(initial *State, logger *zap.Logger) *Store {
	if initial == nil {
		initial = NewState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:   initial,
		changed: make(chan struct{}),
		subs:    make(map[uint64]chan *State),
		logger:  logger,
	}
}

func (s *Store) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies e and publishes the resulting state.
func (s *Store) Dispatch(e Event) *State {
	if e == nil {
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(e)
}

// DispatchIf applies events in order only when pred holds for the current
// state. The check and the events run under one lock, so no other dispatch
// can interleave.
func (s *Store) DispatchIf(pred func(*State) bool, events ...Event) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !pred(s.state) {
		return s.state, false
	}
	for _, e := range events {
		if e != nil {
			s.apply(e)
		}
	}
	return s.state, true
}

// apply must be called with mu held.
func (s *Store) apply(e Event) *State {
	prev := s.state
	next := Transition(prev, e)
	if next == prev {
		s.logger.Debug("event ignored", zap.String("kind", e.Kind()))
		return prev
	}

	s.state = next
	close(s.changed)
	s.changed = make(chan struct{})
	for _, ch := range s.subs {
		publishLatest(ch, next)
	}

	s.logger.Debug("event applied",
		zap.String("kind", e.Kind()),
		zap.Int("pending_requests", len(next.ItemRequestStack)))
	return next
}

// Subscribe returns a channel that always holds the most recent state
// published since the last receive. Slow readers miss intermediate states,
// they never block Dispatch.
func (s *Store) Subscribe() (<-chan *State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan *State, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// WaitFor blocks until the current state satisfies pred or ctx is done. On
// cancellation it returns the last observed state along with ctx.Err().
func (s *Store) WaitFor(ctx context.Context, pred func(*State) bool) (*State, error) {
	for {
		s.mu.RLock()
		state, changed := s.state, s.changed
		s.mu.RUnlock()

		if pred(state) {
			return state, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

func publishLatest(ch chan *State, state *State) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- state
}
