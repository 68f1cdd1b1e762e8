package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// CopySuffix is appended to the name of every pasted or duplicated object.
const CopySuffix = " (copy)"

// Well-known ids of the lights present in a fresh scene.
const (
	DefaultAmbientLightID     = "ambient-default"
	DefaultDirectionalLightID = "directional-default"
)

// Defaults is the shared default-value table used by the Factory.
type Defaults struct {
	Color     string
	Roughness float64
	Metalness float64
	Position  mgl64.Vec3
	Rotation  mgl64.Vec3
	Scale     mgl64.Vec3

	LightColor       string
	LightPosition    mgl64.Vec3
	AmbientIntensity float64
	LightIntensity   float64
}

// DefaultValues returns the built-in default table.
func DefaultValues() Defaults {
	return Defaults{
		Color:     "#ffffff",
		Roughness: 0.5,
		Metalness: 0.5,
		Position:  mgl64.Vec3{0, 0, 0},
		Rotation:  mgl64.Vec3{0, 0, 0},
		Scale:     mgl64.Vec3{1, 1, 1},

		LightColor:       "#ffffff",
		LightPosition:    mgl64.Vec3{5, 5, 5},
		AmbientIntensity: 0.5,
		LightIntensity:   1,
	}
}

// GenerateID creates a new unique entity identifier.
func GenerateID() string {
	return uuid.New().String()
}

// Factory builds default-valued entities with fresh ids.
//
// Thread Safety: a Factory holds no mutable state and is safe for concurrent use.
type Factory struct {
	defaults Defaults
	newID    func() string
}

// NewFactory creates a factory over the given default table.
func NewFactory(d Defaults) *Factory {
	return &Factory{defaults: d, newID: GenerateID}
}

// Defaults returns the factory's default table.
func (f *Factory) Defaults() Defaults {
	return f.defaults
}

// NewObject creates a SceneObject of the given shape with default values.
// The name is the capitalised shape tag, e.g. "Box".
func (f *Factory) NewObject(t ShapeType) SceneObject {
	d := f.defaults
	return SceneObject{
		ID:        f.newID(),
		Type:      t,
		Name:      DisplayName(string(t)),
		Position:  d.Position,
		Rotation:  d.Rotation,
		Scale:     d.Scale,
		Color:     d.Color,
		Roughness: d.Roughness,
		Metalness: d.Metalness,
	}
}

// NewLight creates a SceneLight of the given type with default values.
func (f *Factory) NewLight(t LightType) SceneLight {
	d := f.defaults
	intensity := d.LightIntensity
	if t == LightAmbient {
		intensity = d.AmbientIntensity
	}
	return SceneLight{
		ID:         f.newID(),
		Type:       t,
		Name:       DisplayName(string(t)),
		Color:      d.LightColor,
		Intensity:  intensity,
		Position:   d.LightPosition,
		CastShadow: t != LightAmbient,
	}
}

// NewBookmark creates a camera bookmark. An empty name falls back to "View".
func (f *Factory) NewBookmark(name string, position, target mgl64.Vec3) CameraBookmark {
	if strings.TrimSpace(name) == "" {
		name = "View"
	}
	return CameraBookmark{
		ID:       f.newID(),
		Name:     name,
		Position: position,
		Target:   target,
	}
}

// PasteCopy returns a fresh-id copy of o named "<name> (copy)" and moved by
// delta along the x and z axes.
func (f *Factory) PasteCopy(o SceneObject, delta float64) SceneObject {
	cpy := o.Clone()
	cpy.ID = f.newID()
	cpy.Name = o.Name + CopySuffix
	cpy.Position = o.Position.Add(mgl64.Vec3{delta, 0, delta})
	return cpy
}

// DefaultLights returns the two lights present in a fresh scene.
func DefaultLights(d Defaults) []SceneLight {
	return []SceneLight{
		{
			ID:         DefaultAmbientLightID,
			Type:       LightAmbient,
			Name:       "Ambient",
			Color:      d.LightColor,
			Intensity:  d.AmbientIntensity,
			CastShadow: false,
		},
		{
			ID:         DefaultDirectionalLightID,
			Type:       LightDirectional,
			Name:       "Sun",
			Color:      d.LightColor,
			Intensity:  d.LightIntensity,
			Position:   mgl64.Vec3{5, 10, 5},
			CastShadow: true,
		},
	}
}

// CloneObjects returns a deep copy of the collection. A nil input yields nil.
func CloneObjects(objs []SceneObject) []SceneObject {
	if objs == nil {
		return nil
	}
	if len(objs) == 0 {
		return []SceneObject{}
	}
	var out []SceneObject
	if err := copier.CopyWithOption(&out, objs, copier.Option{DeepCopy: true}); err != nil || len(out) != len(objs) {
		out = make([]SceneObject, len(objs))
		for i, o := range objs {
			out[i] = o.Clone()
		}
	}
	return out
}

// DisplayName capitalises the first letter of a type tag.
func DisplayName(tag string) string {
	if tag == "" {
		return tag
	}
	return strings.ToUpper(tag[:1]) + tag[1:]
}
