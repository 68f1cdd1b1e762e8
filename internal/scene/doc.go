// Package scene defines the entity model of Scenecraft Core.
//
// An entity is a top-level addressable item in the editor: a SceneObject
// (primitive shape), a SceneLight, or a CameraBookmark. Entities are plain
// value types; the store owns the canonical collections and hands out
// copies.
//
// # Key Types
//
//   - SceneObject: a primitive shape with transform and material fields
//   - ObjectPatch: a partial set of SceneObject's mutable fields
//   - SceneLight / LightPatch: light source and its partial update
//   - CameraBookmark: immutable saved eye position and look-at target
//   - Defaults: the shared default-value table
//   - Factory: builds default-valued entities with fresh ids
//
// # Invariants
//
//   - An entity id never changes after creation.
//   - ShapeType and LightType are fixed at creation; patches cannot carry them.
//   - Roughness, metalness and opacity stay in [0, 1]; light intensity is
//     never negative; an ambient light never casts shadows. Apply clamps
//     rather than rejects, because the store treats bad input as a no-op
//     and never fails. ValidateObjectPatch / ValidateLightPatch are for
//     boundaries that want to reject input instead.
//
// Vectors use mgl64.Vec3 from github.com/go-gl/mathgl.
package scene
