package store

import (
	"slices"

	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// ─── Objects ────────────────────────────────────────────────────────

// AddObject creates a default-valued object of the given shape, appends it
// and makes it the only selected object. It returns the new id.
func (s *Store) AddObject(t scene.ShapeType) string {
	var id string
	s.mutate("add_object", func() Slice {
		obj := s.factory.NewObject(t)
		id = obj.ID
		s.objects = append(slices.Clip(s.objects), obj)
		s.selectedIDs = []string{obj.ID}
		s.logger.Debug("object added", "object_id", obj.ID, "type", string(t))
		return SliceSelection | s.clearLightSelectionLocked()
	})
	return id
}

// UpdateObject merges p into the object with the given id.
func (s *Store) UpdateObject(id string, p scene.ObjectPatch) {
	s.mutate("update_object", func() Slice {
		i := s.objectIndex(id)
		if i < 0 {
			return 0
		}
		next := slices.Clone(s.objects)
		next[i] = next[i].Apply(p)
		s.objects = next
		return 0
	})
}

// UpdateSelectedObjects merges p into every selected object.
func (s *Store) UpdateSelectedObjects(p scene.ObjectPatch) {
	s.mutate("update_selected_objects", func() Slice {
		if len(s.selectedIDs) == 0 {
			return 0
		}
		sel := s.selectionSet()
		next := slices.Clone(s.objects)
		for i := range next {
			if _, ok := sel[next[i].ID]; ok {
				next[i] = next[i].Apply(p)
			}
		}
		s.objects = next
		return 0
	})
}

// DeleteObject removes an object, its selection membership, its
// interaction record and any pending actions sourced from or aimed at it.
func (s *Store) DeleteObject(id string) {
	s.mutate("delete_object", func() Slice {
		if s.objectIndex(id) < 0 {
			return 0
		}
		return s.deleteObjectsLocked(map[string]struct{}{id: {}})
	})
}

// DeleteSelectedObjects removes every selected object. Selection is empty
// afterwards.
func (s *Store) DeleteSelectedObjects() {
	s.mutate("delete_selected_objects", func() Slice {
		if len(s.selectedIDs) == 0 {
			return 0
		}
		changed := s.deleteObjectsLocked(s.selectionSet())
		s.selectedIDs = []string{}
		return changed | SliceSelection
	})
}

func (s *Store) deleteObjectsLocked(ids map[string]struct{}) Slice {
	changed := Slice(0)
	s.objects = slices.DeleteFunc(slices.Clone(s.objects), func(o scene.SceneObject) bool {
		_, gone := ids[o.ID]
		return gone
	})

	before := len(s.selectedIDs)
	s.selectedIDs = slices.DeleteFunc(slices.Clone(s.selectedIDs), func(sid string) bool {
		_, gone := ids[sid]
		return gone
	})
	if len(s.selectedIDs) != before {
		changed |= SliceSelection
	}

	for id := range ids {
		if s.removeInteraction(id) {
			changed |= SliceInteractions
		}
		if n := s.engine.CancelObject(id); n > 0 {
			s.logger.Debug("pending actions cancelled", "object_id", id, "count", n)
		}
		s.logger.Debug("object deleted", "object_id", id)
	}
	return changed
}

// ─── Selection ──────────────────────────────────────────────────────

// SelectObject changes the object selection and clears any light selection.
//
// An empty id clears the selection. With multi false the selection becomes
// exactly {id}; with multi true, id's membership is toggled. An id that is
// not in the scene leaves selection unchanged.
func (s *Store) SelectObject(id string, multi bool) {
	s.mutate("select_object", func() Slice {
		if id == "" {
			s.selectedIDs = []string{}
			return SliceSelection
		}
		if s.objectIndex(id) < 0 {
			return 0
		}
		switch {
		case !multi:
			s.selectedIDs = []string{id}
		case slices.Contains(s.selectedIDs, id):
			s.selectedIDs = slices.DeleteFunc(slices.Clone(s.selectedIDs), func(sid string) bool { return sid == id })
		default:
			s.selectedIDs = append(slices.Clip(s.selectedIDs), id)
		}
		return SliceSelection | s.clearLightSelectionLocked()
	})
}

// SelectAll selects every object.
func (s *Store) SelectAll() {
	s.mutate("select_all", func() Slice {
		ids := make([]string, len(s.objects))
		for i, o := range s.objects {
			ids[i] = o.ID
		}
		s.selectedIDs = ids
		if len(ids) == 0 {
			return SliceSelection
		}
		return SliceSelection | s.clearLightSelectionLocked()
	})
}

// DeselectAll clears the object selection.
func (s *Store) DeselectAll() {
	s.mutate("deselect_all", func() Slice {
		s.selectedIDs = []string{}
		return SliceSelection
	})
}

func (s *Store) selectionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.selectedIDs))
	for _, id := range s.selectedIDs {
		set[id] = struct{}{}
	}
	return set
}

// selectedObjectsLocked returns the selected objects in collection order.
func (s *Store) selectedObjectsLocked() []scene.SceneObject {
	sel := s.selectionSet()
	var out []scene.SceneObject
	for _, o := range s.objects {
		if _, ok := sel[o.ID]; ok {
			out = append(out, o)
		}
	}
	return out
}

// ─── Clipboard ──────────────────────────────────────────────────────

// CopySelectedObjects replaces the clipboard with deep copies of the
// selected objects. With nothing selected the clipboard becomes empty.
func (s *Store) CopySelectedObjects() {
	s.mutate("copy_selected_objects", func() Slice {
		s.clipboard = scene.CloneObjects(s.selectedObjectsLocked())
		if s.clipboard == nil {
			s.clipboard = []scene.SceneObject{}
		}
		return SliceClipboard
	})
}

// PasteObjects appends a fresh copy of each clipboard entry, offset along
// x and z and named "<name> (copy)", then selects exactly the new objects.
// It does nothing when the clipboard is empty.
func (s *Store) PasteObjects() {
	s.mutate("paste_objects", func() Slice {
		if len(s.clipboard) == 0 {
			return 0
		}
		return s.appendCopiesLocked(s.clipboard)
	})
}

// DuplicateSelectedObjects is PasteObjects sourced from the live selection
// instead of the clipboard. It does nothing when the selection is empty.
func (s *Store) DuplicateSelectedObjects() {
	s.mutate("duplicate_selected_objects", func() Slice {
		src := s.selectedObjectsLocked()
		if len(src) == 0 {
			return 0
		}
		return s.appendCopiesLocked(src)
	})
}

func (s *Store) appendCopiesLocked(src []scene.SceneObject) Slice {
	next := slices.Clone(s.objects)
	ids := make([]string, 0, len(src))
	for _, o := range src {
		cpy := s.factory.PasteCopy(o, s.pasteOffset)
		next = append(next, cpy)
		ids = append(ids, cpy.ID)
	}
	s.objects = next
	s.selectedIDs = ids
	return SliceSelection | s.clearLightSelectionLocked()
}

// clearLightSelectionLocked drops the light selection, reporting SliceLights
// when there was one.
func (s *Store) clearLightSelectionLocked() Slice {
	if s.selectedLightID == "" {
		return 0
	}
	s.selectedLightID = ""
	return SliceLights
}
