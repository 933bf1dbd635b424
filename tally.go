package tally

import (
	"context"
	_ "embed"
	"log/slog"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// Store is the high-level entry point for the Tally library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Store struct {
	runtime      *runtime.Store
	initialState *domain.State
	reducer      runtime.Reducer
	hooks        []domain.LifecycleHooks
	logger       *slog.Logger
}

var _ ports.Store = (*Store)(nil)

// Option defines a functional option for configuring the Store.
type Option func(*Store)

// WithInitialState overrides the starting state ({0, "someValue"} by default).
func WithInitialState(state domain.State) Option {
	return func(s *Store) {
		s.initialState = &state
	}
}

// WithLegacyReducer switches to the transition that reproduces the historical
// increment defect (payload ignored, OtherProperty overwritten).
func WithLegacyReducer() Option {
	return func(s *Store) {
		s.reducer = runtime.LegacyTransition
	}
}

// WithReducer injects a custom transition function.
func WithReducer(r func(domain.State, domain.Action) domain.State) Option {
	return func(s *Store) {
		s.reducer = r
	}
}

// WithLifecycleHooks registers observability hooks. It can be given more than once;
// hook sets run in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New initializes a Store holding the initial state.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.StoreOption{
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(domain.MergeHooks(s.hooks...)),
	}
	if s.initialState != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithInitialState(*s.initialState))
	}
	if s.reducer != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithReducer(s.reducer))
	}

	s.runtime = runtime.NewStore(runtimeOpts...)
	return s
}

// Dispatch applies an action and notifies subscribers. It returns the committed state.
func (s *Store) Dispatch(ctx context.Context, action domain.Action) domain.State {
	return s.runtime.Dispatch(ctx, action)
}

// GetState returns a point-in-time snapshot of the current state.
func (s *Store) GetState() domain.State {
	return s.runtime.GetState()
}

// Subscribe registers a listener called after every dispatch.
func (s *Store) Subscribe(listener func()) func() {
	return s.runtime.Subscribe(listener)
}

// ListenerCount returns the number of active subscriptions.
func (s *Store) ListenerCount() int {
	return s.runtime.ListenerCount()
}

// Transition exposes the standard reducer for callers that want to compute states without a store.
func Transition(state domain.State, action domain.Action) domain.State {
	return runtime.Transition(state, action)
}
