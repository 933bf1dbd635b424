package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// Dispatcher sends actions to the store.
type Dispatcher interface {
	// Dispatch replaces the current state with reducer(current, action),
	// notifies subscribers synchronously and returns the committed state.
	Dispatch(ctx context.Context, action domain.Action) domain.State
}

// StateReader exposes the latest committed state.
type StateReader interface {
	// GetState returns a snapshot. Callers must treat it as read-only; changes go through Dispatch.
	GetState() domain.State
}

// Subscriber notifies consumers after every dispatch.
type Subscriber interface {
	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(listener func()) (unsubscribe func())
}

// Store is the full contract consumed by bindings and adapters.
type Store interface {
	Dispatcher
	StateReader
	Subscriber
}
