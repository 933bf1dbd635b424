package domain

import "strconv"

// ActionType tags the kind of an Action.
type ActionType string

// Standard Action Types
const (
	// ActionIncrement adds Payload to the count.
	ActionIncrement ActionType = "INCREMENT"

	// ActionDecrement subtracts one from the count. It carries no payload.
	ActionDecrement ActionType = "DECREMENT"
)

// Action is an immutable record describing an intended state change.
// Any Type other than the standard ones is an unrecognized kind and leaves the state unchanged.
type Action struct {
	Type    ActionType `json:"type" mapstructure:"type"`
	Payload int        `json:"payload,omitempty" mapstructure:"payload"`
}

// Increment builds an INCREMENT action. The amount is not validated.
func Increment(amount int) Action {
	return Action{Type: ActionIncrement, Payload: amount}
}

// Decrement builds a DECREMENT action.
func Decrement() Action {
	return Action{Type: ActionDecrement}
}

// IsKnown reports whether the action kind is handled by the standard reducer.
func (a Action) IsKnown() bool {
	return a.Type == ActionIncrement || a.Type == ActionDecrement
}

func (a Action) String() string {
	if a.Type == ActionIncrement {
		return string(a.Type) + "(" + strconv.Itoa(a.Payload) + ")"
	}
	return string(a.Type)
}
