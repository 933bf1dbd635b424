package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	Count         *int    `json:"count,omitempty"`
	OtherProperty *string `json:"otherProperty,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState *State, newState State) *StateDiff {
	diff := &StateDiff{}

	if oldState == nil || oldState.Count != newState.Count {
		count := newState.Count
		diff.Count = &count
	}
	if oldState == nil || oldState.OtherProperty != newState.OtherProperty {
		other := newState.OtherProperty
		diff.OtherProperty = &other
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Count == nil && d.OtherProperty == nil
}

// Touches reports whether the diff carries the named JSON field.
func (d *StateDiff) Touches(field string) bool {
	switch field {
	case "count":
		return d.Count != nil
	case "otherProperty":
		return d.OtherProperty != nil
	}
	return false
}

// Apply merges the diff into a state, returning the result.
func (d *StateDiff) Apply(s State) State {
	if d.Count != nil {
		s.Count = *d.Count
	}
	if d.OtherProperty != nil {
		s.OtherProperty = *d.OtherProperty
	}
	return s
}
