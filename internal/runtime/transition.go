package runtime

import "github.com/aretw0/tally/pkg/domain"

// Reducer maps the current state and an action to the next state.
// Implementations must be pure: no I/O, no mutation of shared data.
type Reducer func(state domain.State, action domain.Action) domain.State

// legacyOtherProperty is the literal the legacy increment path writes over OtherProperty.
const legacyOtherProperty = "Heloo Juhi"

// Transition is the standard reducer.
//
//   - INCREMENT(n): Count + n, OtherProperty unchanged.
//   - DECREMENT:    Count - 1, OtherProperty unchanged.
//   - anything else returns the input state (identity transition).
func Transition(state domain.State, action domain.Action) domain.State {
	switch action.Type {
	case domain.ActionIncrement:
		state.Count += action.Payload
		return state
	case domain.ActionDecrement:
		state.Count--
		return state
	default:
		return state
	}
}

// LegacyTransition reproduces the historical increment defect for compatibility checks.
// INCREMENT overwrites OtherProperty and then runs the DECREMENT branch, so the payload
// is ignored and Count goes down by one. Every other kind behaves like Transition.
func LegacyTransition(state domain.State, action domain.Action) domain.State {
	if action.Type == domain.ActionIncrement {
		state.OtherProperty = legacyOtherProperty
		return Transition(state, domain.Decrement())
	}
	return Transition(state, action)
}
