package interaction

import "errors"

// Domain errors for the interaction package.
//
// These are produced by validation of external input. The Engine and the
// record operations never fail; a reference miss is a no-op.
var (
	// ErrInvalidEvent is returned when an event type or key binding is not usable.
	ErrInvalidEvent = errors.New("interaction: invalid event")

	// ErrInvalidAction is returned when an action has an unknown type or bad timing.
	ErrInvalidAction = errors.New("interaction: invalid action")

	// ErrInvalidRule is returned when a rule is malformed.
	ErrInvalidRule = errors.New("interaction: invalid rule")

	// ErrInvalidState is returned when a state definition is malformed.
	ErrInvalidState = errors.New("interaction: invalid state")
)
