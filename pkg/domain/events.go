package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch EventType = "dispatch"
	EventCommit   EventType = "commit"
)

// DispatchEvent describes a single pass through the transition function.
type DispatchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TraceID   string    `json:"trace_id"`
	// Seq orders dispatches as they were committed; hooks run outside the store lock
	// and may observe events out of order.
	Seq      uint64 `json:"seq"`
	Action   Action `json:"action"`
	Previous State  `json:"previous"`
	Next     State  `json:"next"`
}

// Changed reports whether the transition produced a different state.
func (e *DispatchEvent) Changed() bool {
	return e.Previous != e.Next
}

// LifecycleHooks defines callbacks for store observability.
// OnDispatch runs right after the transition, before listeners are notified.
// OnCommit runs after every listener has been notified.
type LifecycleHooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnCommit   func(context.Context, *DispatchEvent)
}

// MergeHooks chains several hook sets, calling them in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var dispatch, commit []func(context.Context, *DispatchEvent)
	for _, h := range hooks {
		if h.OnDispatch != nil {
			dispatch = append(dispatch, h.OnDispatch)
		}
		if h.OnCommit != nil {
			commit = append(commit, h.OnCommit)
		}
	}
	return LifecycleHooks{
		OnDispatch: chain(dispatch),
		OnCommit:   chain(commit),
	}
}

func chain(fns []func(context.Context, *DispatchEvent)) func(context.Context, *DispatchEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *DispatchEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
