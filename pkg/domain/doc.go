/*
Package domain contains the core domain models of the Tally store.

It defines the counter State, the Action records that describe intended changes,
and the events emitted around a dispatch. This package is kept pure and free of
external dependencies like I/O or transport, following Hexagonal Architecture principles.

# Key Entities

  - State: The single record held by the store (Count and OtherProperty).
  - Action: A tagged record (INCREMENT with an amount, DECREMENT) consumed once by the reducer.
  - StateDiff: The field-level change between two committed states, used for streaming.
  - LifecycleHooks: Callbacks invoked with the action and the resulting state.
*/
package domain
