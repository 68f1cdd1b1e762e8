package input

import "errors"

// Domain errors for the input package.
var (
	// ErrInvalidKeyEvent is returned for a key event without a key or with a
	// non-key event type.
	ErrInvalidKeyEvent = errors.New("input: invalid key event")

	// ErrInvalidPointerEvent is returned for a pointer event whose type is
	// not a pointer event.
	ErrInvalidPointerEvent = errors.New("input: invalid pointer event")
)
