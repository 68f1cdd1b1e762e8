package bridge

import "errors"

var (
	// ErrInvalidTopic is returned for a message on a topic that is not an
	// object event topic.
	ErrInvalidTopic = errors.New("bridge: not an object event topic")

	// ErrInvalidPayload is returned when an event body is not valid JSON.
	ErrInvalidPayload = errors.New("bridge: invalid event payload")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("bridge: already started")
)
