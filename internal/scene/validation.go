package scene

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Validation constants.
const (
	maxNameLength    = 100
	maxTextureLength = 2048
	colorPattern     = `^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`
)

var colorRegex = regexp.MustCompile(colorPattern)

// Texture schemes the renderer can load. A relative path has no scheme.
var textureSchemes = map[string]struct{}{
	"":      {},
	"http":  {},
	"https": {},
	"data":  {},
	"blob":  {},
}

var (
	validShapes map[ShapeType]struct{}
	validLights map[LightType]struct{}
)

func init() {
	validShapes = make(map[ShapeType]struct{}, len(AllShapeTypes()))
	for _, s := range AllShapeTypes() {
		validShapes[s] = struct{}{}
	}
	validLights = make(map[LightType]struct{}, len(AllLightTypes()))
	for _, l := range AllLightTypes() {
		validLights[l] = struct{}{}
	}
}

// Valid reports whether s is a known shape type.
func (s ShapeType) Valid() bool {
	_, ok := validShapes[s]
	return ok
}

// Valid reports whether l is a known light type.
func (l LightType) Valid() bool {
	_, ok := validLights[l]
	return ok
}

// ParseShapeType converts a tag into a ShapeType.
func ParseShapeType(tag string) (ShapeType, error) {
	s := ShapeType(tag)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidShape, tag)
	}
	return s, nil
}

// ParseLightType converts a tag into a LightType.
func ParseLightType(tag string) (LightType, error) {
	l := LightType(tag)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLightType, tag)
	}
	return l, nil
}

// ValidateName checks an entity display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateColor checks a #RGB or #RRGGBB hex colour.
func ValidateColor(c string) error {
	if !colorRegex.MatchString(c) {
		return fmt.Errorf("%w: invalid colour %q", ErrInvalidPatch, c)
	}
	return nil
}

// ValidateObjectPatch rejects patches carrying values the store would clamp
// or discard. It is meant for external input; the store accepts anything.
func ValidateObjectPatch(p ObjectPatch) error { //nolint:gocognit,gocyclo // one check per optional field
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	for field, v := range map[string]*mgl64.Vec3{
		"position": p.Position,
		"rotation": p.Rotation,
		"scale":    p.Scale,
	} {
		if v != nil && !finiteVec(*v) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidPatch, field)
		}
	}
	if p.Color != nil {
		if err := ValidateColor(*p.Color); err != nil {
			return err
		}
	}
	for field, v := range map[string]*float64{
		"roughness": p.Roughness,
		"metalness": p.Metalness,
		"opacity":   p.Opacity,
	} {
		if v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidPatch, field)
		}
	}
	if p.TextureURL != nil && len(*p.TextureURL) > maxTextureLength {
		return fmt.Errorf("%w: texture reference exceeds %d characters", ErrInvalidPatch, maxTextureLength)
	}
	return nil
}

// ValidateLightPatch rejects light patches with out-of-range values.
func ValidateLightPatch(p LightPatch) error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Color != nil {
		if err := ValidateColor(*p.Color); err != nil {
			return err
		}
	}
	if p.Intensity != nil && (math.IsNaN(*p.Intensity) || math.IsInf(*p.Intensity, 0) || *p.Intensity < 0) {
		return fmt.Errorf("%w: intensity must be a non-negative number", ErrInvalidPatch)
	}
	if p.Position != nil && !finiteVec(*p.Position) {
		return fmt.Errorf("%w: position must be finite", ErrInvalidPatch)
	}
	return nil
}

// NormalizeTextureURL returns the reference unchanged when the renderer can
// attempt to load it, or "" (untextured) when it cannot be parsed or uses an
// unsupported scheme.
func NormalizeTextureURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || len(ref) > maxTextureLength {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if _, ok := textureSchemes[strings.ToLower(u.Scheme)]; !ok {
		return ""
	}
	return ref
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
