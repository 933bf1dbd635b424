package dto

import (
	"fmt"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ActionRecord is the wire shape of an action as received by adapters (HTTP bodies, MCP arguments).
// It uses "mapstructure" tags so loosely typed maps (JSON numbers, numeric strings) decode cleanly.
type ActionRecord struct {
	Type    string `json:"type" mapstructure:"type"`
	Payload *int   `json:"payload,omitempty" mapstructure:"payload"`
}

// DecodeAction converts a generic map into a domain.Action.
// Only the shape is checked: a string "type" is required and the payload must be an
// integer that fits an int. What the integer means is left to the reducer.
func DecodeAction(raw map[string]any) (domain.Action, error) {
	var rec ActionRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
		DecodeHook:       intHook,
	})
	if err != nil {
		return domain.Action{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Action{}, fmt.Errorf("%w: %v", domain.ErrMalformedAction, err)
	}
	return rec.ToDomain()
}

// ToDomain converts the record, enforcing that the type tag is present.
func (r ActionRecord) ToDomain() (domain.Action, error) {
	if r.Type == "" {
		return domain.Action{}, fmt.Errorf("%w: missing type", domain.ErrMalformedAction)
	}
	a := domain.Action{Type: domain.ActionType(r.Type)}
	if r.Payload != nil {
		a.Payload = *r.Payload
	}
	return a, nil
}

// FromDomain builds the wire record for an action.
func FromDomain(a domain.Action) ActionRecord {
	rec := ActionRecord{Type: string(a.Type)}
	if a.Type == domain.ActionIncrement {
		payload := a.Payload
		rec.Payload = &payload
	}
	return rec
}
