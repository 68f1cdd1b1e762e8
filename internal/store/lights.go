package store

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// ─── Lights ─────────────────────────────────────────────────────────

// AddLight creates a default-valued light, appends it and selects it.
// Object selection is cleared. It returns the new id.
func (s *Store) AddLight(t scene.LightType) string {
	var id string
	s.mutate("add_light", func() Slice {
		l := s.factory.NewLight(t)
		id = l.ID
		s.lights = append(slices.Clip(s.lights), l)
		s.selectedLightID = l.ID
		s.logger.Debug("light added", "light_id", l.ID, "type", string(t))
		return SliceLights | s.clearObjectSelectionLocked()
	})
	return id
}

// SelectLight selects a light and clears the object selection. An empty
// id clears the light selection; an unknown id is a no-op.
func (s *Store) SelectLight(id string) {
	s.mutate("select_light", func() Slice {
		if id == "" {
			if s.selectedLightID == "" {
				return 0
			}
			s.selectedLightID = ""
			return SliceLights
		}
		if s.lightIndex(id) < 0 {
			return 0
		}
		s.selectedLightID = id
		return SliceLights | s.clearObjectSelectionLocked()
	})
}

// UpdateLight merges p into the light with the given id.
func (s *Store) UpdateLight(id string, p scene.LightPatch) {
	s.mutate("update_light", func() Slice {
		i := s.lightIndex(id)
		if i < 0 {
			return 0
		}
		next := slices.Clone(s.lights)
		next[i] = next[i].Apply(p)
		s.lights = next
		return SliceLights
	})
}

// DeleteLight removes a light and clears the light selection if it
// pointed at it.
func (s *Store) DeleteLight(id string) {
	s.mutate("delete_light", func() Slice {
		i := s.lightIndex(id)
		if i < 0 {
			return 0
		}
		s.lights = slices.Delete(slices.Clone(s.lights), i, i+1)
		if s.selectedLightID == id {
			s.selectedLightID = ""
		}
		s.logger.Debug("light deleted", "light_id", id)
		return SliceLights
	})
}

func (s *Store) lightIndex(id string) int {
	return slices.IndexFunc(s.lights, func(l scene.SceneLight) bool { return l.ID == id })
}

func (s *Store) clearObjectSelectionLocked() Slice {
	if len(s.selectedIDs) == 0 {
		return 0
	}
	s.selectedIDs = []string{}
	return SliceSelection
}

// ─── Camera bookmarks ───────────────────────────────────────────────

// AddCameraBookmark saves a camera view and returns its id.
func (s *Store) AddCameraBookmark(name string, position, target mgl64.Vec3) string {
	var id string
	s.mutate("add_camera_bookmark", func() Slice {
		b := s.factory.NewBookmark(name, position, target)
		id = b.ID
		s.bookmarks = append(slices.Clip(s.bookmarks), b)
		return SliceBookmarks
	})
	return id
}

// DeleteCameraBookmark removes a bookmark by id.
func (s *Store) DeleteCameraBookmark(id string) {
	s.mutate("delete_camera_bookmark", func() Slice {
		i := slices.IndexFunc(s.bookmarks, func(b scene.CameraBookmark) bool { return b.ID == id })
		if i < 0 {
			return 0
		}
		s.bookmarks = slices.Delete(slices.Clone(s.bookmarks), i, i+1)
		return SliceBookmarks
	})
}
