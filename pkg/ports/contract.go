package ports

import (
	"context"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract. newStore must return a fresh store
// holding domain.InitialState with the standard reducer.
func RunStoreContract(t *testing.T, newStore func() Store) {
	ctx := context.Background()

	t.Run("Initial State", func(t *testing.T) {
		store := newStore()
		assert.Equal(t, domain.InitialState(), store.GetState())
	})

	t.Run("Increment Then Decrement", func(t *testing.T) {
		store := newStore()

		got := store.Dispatch(ctx, domain.Increment(10))
		assert.Equal(t, domain.State{Count: 10, OtherProperty: "someValue"}, got)
		assert.Equal(t, got, store.GetState())

		got = store.Dispatch(ctx, domain.Decrement())
		assert.Equal(t, domain.State{Count: 9, OtherProperty: "someValue"}, got)
		assert.Equal(t, got, store.GetState())
	})

	t.Run("Unknown Action Is Identity", func(t *testing.T) {
		store := newStore()
		store.Dispatch(ctx, domain.Increment(4))
		before := store.GetState()

		after := store.Dispatch(ctx, domain.Action{Type: "UNKNOWN", Payload: 1})
		assert.Equal(t, before, after)
		assert.Equal(t, before, store.GetState())
	})

	t.Run("Snapshots Are Copies", func(t *testing.T) {
		store := newStore()
		snap := store.GetState()
		snap.Count = 1000
		snap.OtherProperty = "tampered"
		assert.Equal(t, domain.InitialState(), store.GetState())
	})

	t.Run("Subscribe And Unsubscribe", func(t *testing.T) {
		store := newStore()

		var seen []domain.State
		unsubscribe := store.Subscribe(func() {
			seen = append(seen, store.GetState())
		})

		store.Dispatch(ctx, domain.Decrement())
		store.Dispatch(ctx, domain.Decrement())
		require.Len(t, seen, 2, "one notification per dispatch")
		assert.Equal(t, -1, seen[0].Count)
		assert.Equal(t, -2, seen[1].Count)

		unsubscribe()
		unsubscribe() // idempotent

		store.Dispatch(ctx, domain.Decrement())
		assert.Len(t, seen, 2, "no notification after unsubscribe")
	})

	t.Run("Notification Order", func(t *testing.T) {
		store := newStore()

		var order []string
		u1 := store.Subscribe(func() { order = append(order, "first") })
		u2 := store.Subscribe(func() { order = append(order, "second") })
		defer u1()
		defer u2()

		store.Dispatch(ctx, domain.Increment(1))
		assert.Equal(t, []string{"first", "second"}, order)
	})
}
