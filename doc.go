/*
Package tally is a small reducer-driven state store holding a single shared counter.

State is replaced, never mutated: every Dispatch runs a pure transition function over the
current state and the action, commits the result and notifies subscribers synchronously.
Consumers read snapshots with GetState and react to changes through Subscribe.

# Concept

The store is the only writer. Views, HTTP handlers, MCP tools and publishers are all
consumers of the same three operations (Dispatch, GetState, Subscribe). Two access styles
are provided on top of them in package binding: a higher-order Connect wrapper and
hook-style UseSelector / UseDispatch.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/tally"
		"github.com/aretw0/tally/pkg/domain"
	)

	func main() {
		store := tally.New()
		unsubscribe := store.Subscribe(func() {
			fmt.Println("count:", store.GetState().Count)
		})
		defer unsubscribe()

		ctx := context.Background()
		store.Dispatch(ctx, domain.Increment(10)) // count: 10
		store.Dispatch(ctx, domain.Decrement())   // count: 9
	}

# Legacy Mode

WithLegacyReducer selects a transition that reproduces a historical defect in the increment
path: the payload is ignored, the count goes down by one and OtherProperty is overwritten.
It exists for compatibility testing only.
*/
package tally
