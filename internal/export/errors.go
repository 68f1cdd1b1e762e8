package export

import "errors"

// Domain errors for the export package.
var (
	// ErrNoObjects is returned when an export is requested for an empty scene.
	ErrNoObjects = errors.New("export: scene has no objects")

	// ErrEncodeFailed wraps any error raised by the Encoder.
	ErrEncodeFailed = errors.New("export: encode failed")
)
