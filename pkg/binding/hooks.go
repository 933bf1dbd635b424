package binding

import (
	"context"
	"reflect"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// Dispatch is a dispatch function bound to a store and a context.
type Dispatch func(action domain.Action) domain.State

// UseDispatch returns the store's dispatch bound to ctx.
func UseDispatch(ctx context.Context, store ports.Dispatcher) Dispatch {
	return func(action domain.Action) domain.State {
		return store.Dispatch(ctx, action)
	}
}

// Selection tracks one value derived from the store state.
// Change callbacks fire only when the selected value differs (reflect.DeepEqual) from the last one.
type Selection[T any] struct {
	store    ports.Store
	selector func(domain.State) T

	mu          sync.Mutex
	value       T
	handlers    []func(T)
	unsubscribe func()
}

// UseSelector subscribes to the store and keeps the selected value current until Close.
func UseSelector[T any](store ports.Store, selector func(domain.State) T) *Selection[T] {
	s := &Selection[T]{
		store:    store,
		selector: selector,
		value:    selector(store.GetState()),
	}
	s.unsubscribe = store.Subscribe(s.update)
	return s
}

func (s *Selection[T]) update() {
	next := s.selector(s.store.GetState())

	s.mu.Lock()
	if reflect.DeepEqual(next, s.value) {
		s.mu.Unlock()
		return
	}
	s.value = next
	handlers := make([]func(T), len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, h := range handlers {
		h(next)
	}
}

// Value returns the latest selected value.
func (s *Selection[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// OnChange registers a callback run with the new value whenever it changes.
func (s *Selection[T]) OnChange(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Close detaches the selection from the store. Safe to call more than once.
func (s *Selection[T]) Close() {
	s.unsubscribe()
}
