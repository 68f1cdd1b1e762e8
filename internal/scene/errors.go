package scene

import "errors"

// Domain errors for the scene package.
//
// The store itself never returns these; they are produced by the parsing
// and validation helpers used at external boundaries (REST, MQTT).
var (
	// ErrInvalidShape is returned when a shape type tag is not recognised.
	ErrInvalidShape = errors.New("scene: invalid shape type")

	// ErrInvalidLightType is returned when a light type tag is not recognised.
	ErrInvalidLightType = errors.New("scene: invalid light type")

	// ErrInvalidPatch is returned when a partial update carries out-of-range values.
	ErrInvalidPatch = errors.New("scene: invalid patch")

	// ErrInvalidName is returned when an entity name is empty or too long.
	ErrInvalidName = errors.New("scene: invalid name")
)
