package domain

// DefaultOtherProperty is the value OtherProperty holds when the store starts.
const DefaultOtherProperty = "someValue"

// State represents the current snapshot of the store.
// It is a value type: every dispatch produces a new State instead of mutating the old one.
type State struct {
	// Count is the only field driven by actions.
	Count int `json:"count" mapstructure:"count" yaml:"count"`

	// OtherProperty is carried along unchanged by every well-behaved transition.
	OtherProperty string `json:"otherProperty" mapstructure:"otherProperty" yaml:"otherProperty"`
}

// InitialState returns the state the store is created with.
func InitialState() State {
	return State{
		Count:         0,
		OtherProperty: DefaultOtherProperty,
	}
}
