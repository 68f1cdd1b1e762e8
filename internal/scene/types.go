package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType identifies the primitive geometry of a SceneObject.
type ShapeType string

const (
	ShapeBox      ShapeType = "box"
	ShapeSphere   ShapeType = "sphere"
	ShapePlane    ShapeType = "plane"
	ShapeCylinder ShapeType = "cylinder"
	ShapeCone     ShapeType = "cone"
	ShapeTorus    ShapeType = "torus"
	ShapeCapsule  ShapeType = "capsule"
)

// AllShapeTypes returns all valid shape types in toolbar order.
func AllShapeTypes() []ShapeType {
	return []ShapeType{
		ShapeBox,
		ShapeSphere,
		ShapePlane,
		ShapeCylinder,
		ShapeCone,
		ShapeTorus,
		ShapeCapsule,
	}
}

// LightType identifies the kind of a SceneLight.
type LightType string

const (
	LightAmbient     LightType = "ambient"
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
)

// AllLightTypes returns all valid light types.
func AllLightTypes() []LightType {
	return []LightType{
		LightAmbient,
		LightDirectional,
		LightPoint,
		LightSpot,
	}
}

// SceneObject is a primitive shape placed in the scene.
//
// Type is fixed at creation. Optional fields are pointers so that a
// persisted or pasted object can distinguish "unset" from a zero value.
type SceneObject struct {
	// Identity
	ID   string    `json:"id"`
	Type ShapeType `json:"type"`
	Name string    `json:"name"`

	// Transform
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"` // Euler angles, radians
	Scale    mgl64.Vec3 `json:"scale"`

	// Material
	Color      string  `json:"color"` // Hex colour (#RRGGBB)
	Roughness  float64 `json:"roughness"`
	Metalness  float64 `json:"metalness"`
	TextureURL string  `json:"texture_url"` // Empty = untextured

	// Optional appearance overrides
	Opacity *float64 `json:"opacity,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
}

// ObjectPatch is a partial set of a SceneObject's mutable fields.
//
// Nil fields are left untouched by Apply. The same type is used as the
// property-override map of an interaction state.
type ObjectPatch struct {
	Name       *string     `json:"name,omitempty"`
	Position   *mgl64.Vec3 `json:"position,omitempty"`
	Rotation   *mgl64.Vec3 `json:"rotation,omitempty"`
	Scale      *mgl64.Vec3 `json:"scale,omitempty"`
	Color      *string     `json:"color,omitempty"`
	Roughness  *float64    `json:"roughness,omitempty"`
	Metalness  *float64    `json:"metalness,omitempty"`
	TextureURL *string     `json:"texture_url,omitempty"`
	Opacity    *float64    `json:"opacity,omitempty"`
	Visible    *bool       `json:"visible,omitempty"`
}

// SceneLight is a light source. Position is ignored for ambient lights.
type SceneLight struct {
	ID         string     `json:"id"`
	Type       LightType  `json:"type"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Intensity  float64    `json:"intensity"`
	Position   mgl64.Vec3 `json:"position"`
	CastShadow bool       `json:"cast_shadow"`
}

// LightPatch is a partial set of a SceneLight's mutable fields.
type LightPatch struct {
	Name       *string     `json:"name,omitempty"`
	Color      *string     `json:"color,omitempty"`
	Intensity  *float64    `json:"intensity,omitempty"`
	Position   *mgl64.Vec3 `json:"position,omitempty"`
	CastShadow *bool       `json:"cast_shadow,omitempty"`
}

// CameraBookmark is a saved camera view. Bookmarks are never updated.
type CameraBookmark struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
}

// ─── Patch application ──────────────────────────────────────────────

// Apply returns a copy of o with every non-nil field of p merged in.
//
// Unit-interval fields are clamped and an unusable texture reference is
// replaced with the untextured fallback. ID and Type are never touched.
func (o SceneObject) Apply(p ObjectPatch) SceneObject {
	out := o.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Rotation != nil {
		out.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		out.Scale = *p.Scale
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Roughness != nil {
		out.Roughness = clampUnit(*p.Roughness)
	}
	if p.Metalness != nil {
		out.Metalness = clampUnit(*p.Metalness)
	}
	if p.TextureURL != nil {
		out.TextureURL = NormalizeTextureURL(*p.TextureURL)
	}
	if p.Opacity != nil {
		v := clampUnit(*p.Opacity)
		out.Opacity = &v
	}
	if p.Visible != nil {
		v := *p.Visible
		out.Visible = &v
	}
	return out
}

// IsEmpty reports whether the patch carries no fields.
func (p ObjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Rotation == nil &&
		p.Scale == nil && p.Color == nil && p.Roughness == nil &&
		p.Metalness == nil && p.TextureURL == nil && p.Opacity == nil &&
		p.Visible == nil
}

// Merge returns a patch holding the fields of p overlaid with those of other.
func (p ObjectPatch) Merge(other ObjectPatch) ObjectPatch {
	out := p.Clone()
	o := other.Clone()
	if o.Name != nil {
		out.Name = o.Name
	}
	if o.Position != nil {
		out.Position = o.Position
	}
	if o.Rotation != nil {
		out.Rotation = o.Rotation
	}
	if o.Scale != nil {
		out.Scale = o.Scale
	}
	if o.Color != nil {
		out.Color = o.Color
	}
	if o.Roughness != nil {
		out.Roughness = o.Roughness
	}
	if o.Metalness != nil {
		out.Metalness = o.Metalness
	}
	if o.TextureURL != nil {
		out.TextureURL = o.TextureURL
	}
	if o.Opacity != nil {
		out.Opacity = o.Opacity
	}
	if o.Visible != nil {
		out.Visible = o.Visible
	}
	return out
}

// Clone returns an independent copy of the patch.
func (p ObjectPatch) Clone() ObjectPatch {
	return ObjectPatch{
		Name:       clonePtr(p.Name),
		Position:   clonePtr(p.Position),
		Rotation:   clonePtr(p.Rotation),
		Scale:      clonePtr(p.Scale),
		Color:      clonePtr(p.Color),
		Roughness:  clonePtr(p.Roughness),
		Metalness:  clonePtr(p.Metalness),
		TextureURL: clonePtr(p.TextureURL),
		Opacity:    clonePtr(p.Opacity),
		Visible:    clonePtr(p.Visible),
	}
}

// Apply returns a copy of l with every non-nil field of p merged in.
// Intensity is clamped to be non-negative; ambient lights never cast shadows.
func (l SceneLight) Apply(p LightPatch) SceneLight {
	out := l
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Intensity != nil {
		out.Intensity = math.Max(0, *p.Intensity)
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.CastShadow != nil {
		out.CastShadow = *p.CastShadow
	}
	if out.Type == LightAmbient {
		out.CastShadow = false
	}
	return out
}

// ─── Copies and equality ────────────────────────────────────────────

// Clone returns an independent copy of the object.
func (o SceneObject) Clone() SceneObject {
	cpy := o
	cpy.Opacity = clonePtr(o.Opacity)
	cpy.Visible = clonePtr(o.Visible)
	return cpy
}

// Equal reports whether two objects hold identical field values.
func (o SceneObject) Equal(other SceneObject) bool {
	return o.ID == other.ID &&
		o.Type == other.Type &&
		o.Name == other.Name &&
		o.Position == other.Position &&
		o.Rotation == other.Rotation &&
		o.Scale == other.Scale &&
		o.Color == other.Color &&
		o.Roughness == other.Roughness &&
		o.Metalness == other.Metalness &&
		o.TextureURL == other.TextureURL &&
		ptrEqual(o.Opacity, other.Opacity) &&
		ptrEqual(o.Visible, other.Visible)
}

// ObjectsEqual reports whether two collections hold equal objects in the same order.
func ObjectsEqual(a, b []SceneObject) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
