package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/google/uuid"
)

type listenerEntry struct {
	id uint64
	fn func()
}

// Store is the core state holder.
// The reducer is the only writer; Dispatch is the only way to reach it.
// Safe for concurrent use: transitions are serialized, reads return copies.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	reducer   Reducer
	listeners []listenerEntry
	nextID    uint64
	seq       uint64

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithInitialState overrides the state the store starts from.
func WithInitialState(state domain.State) StoreOption {
	return func(s *Store) {
		s.state = state
	}
}

// WithReducer replaces the transition function.
func WithReducer(r Reducer) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.reducer = r
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) StoreOption {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store holding domain.InitialState and using Transition.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:   domain.InitialState(),
		reducer: Transition,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch runs the reducer on the current state, commits the result and notifies
// every listener subscribed at the time of the call. It returns the committed state.
//
// Listeners run synchronously on the calling goroutine, outside the store lock, so a
// listener may dispatch again; the nested dispatch completes before the outer loop resumes.
func (s *Store) Dispatch(ctx context.Context, action domain.Action) domain.State {
	s.mu.Lock()
	prev := s.state
	next := s.reducer(prev, action)
	s.state = next
	s.seq++
	seq := s.seq
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	event := &domain.DispatchEvent{
		Timestamp: time.Now(),
		Type:      domain.EventDispatch,
		TraceID:   uuid.NewString(),
		Seq:       seq,
		Action:    action,
		Previous:  prev,
		Next:      next,
	}

	s.logger.Debug("action dispatched",
		"trace_id", event.TraceID,
		"action", action.Type,
		"payload", action.Payload,
		"count", next.Count,
	)
	if !action.IsKnown() {
		s.logger.Debug("unrecognized action, state unchanged", "action", action.Type)
	}

	s.emitDispatch(ctx, event)

	for _, l := range listeners {
		l.fn()
	}

	s.emitCommit(ctx, event)

	return next
}

// GetState returns a point-in-time snapshot.
func (s *Store) GetState() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener, notified after every dispatch. The listener reads the
// new state through GetState. The returned function removes it and is safe to call more than once.
func (s *Store) Subscribe(listener func()) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ListenerCount returns the number of active subscriptions.
func (s *Store) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Store) emitDispatch(ctx context.Context, event *domain.DispatchEvent) {
	if s.hooks.OnDispatch != nil {
		s.hooks.OnDispatch(ctx, event)
	}
}

func (s *Store) emitCommit(ctx context.Context, event *domain.DispatchEvent) {
	if s.hooks.OnCommit != nil {
		commit := *event
		commit.Type = domain.EventCommit
		s.hooks.OnCommit(ctx, &commit)
	}
}
