package domain

import "errors"

// ErrMalformedAction is returned by adapters when an incoming action record cannot be decoded.
// The reducer itself never fails.
var ErrMalformedAction = errors.New("malformed action")

// ErrUnknownCommand is returned when an interactive session receives input it cannot map to an action.
var ErrUnknownCommand = errors.New("unknown command")
