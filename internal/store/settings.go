package store

import (
	"math"

	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// ─── Editor settings ────────────────────────────────────────────────

// SetTransformMode switches the viewport gizmo. Unknown modes are ignored.
func (s *Store) SetTransformMode(m TransformMode) {
	s.mutate("set_transform_mode", func() Slice {
		if !m.Valid() || s.transformMode == m {
			return 0
		}
		s.transformMode = m
		return SliceSettings
	})
}

// TransformMode returns the active gizmo mode.
func (s *Store) TransformMode() TransformMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transformMode
}

// SetSnapEnabled toggles grid snapping.
func (s *Store) SetSnapEnabled(enabled bool) {
	s.mutate("set_snap_enabled", func() Slice {
		if s.snapEnabled == enabled {
			return 0
		}
		s.snapEnabled = enabled
		return SliceSettings
	})
}

// SetSnapSize sets the grid snap size. Non-positive or non-finite sizes are
// ignored.
func (s *Store) SetSnapSize(size float64) {
	s.mutate("set_snap_size", func() Slice {
		if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) || s.snapSize == size {
			return 0
		}
		s.snapSize = size
		return SliceSettings
	})
}

// SetExporting raises or clears the "export requested" flag.
func (s *Store) SetExporting(exporting bool) {
	s.mutate("set_exporting", func() Slice {
		if s.exporting == exporting {
			return 0
		}
		s.exporting = exporting
		return SliceExport
	})
}

// SetPlayMode switches between editing and play. Leaving play mode cancels
// every pending delayed action.
func (s *Store) SetPlayMode(play bool) {
	s.mutate("set_play_mode", func() Slice {
		if s.playMode == play {
			return 0
		}
		s.playMode = play
		if !play {
			if n := s.engine.CancelAll(); n > 0 {
				s.logger.Debug("pending actions cancelled", "reason", "play mode ended", "count", n)
			}
		}
		return SlicePlayMode
	})
}

// ─── History ────────────────────────────────────────────────────────

// Undo restores the object collection to its value before the most recent
// tracked mutation. Nothing else is restored. It returns false when there
// is nothing to undo.
func (s *Store) Undo() bool {
	return s.travel("undo", s.history.Undo)
}

// Redo reapplies the most recently undone object collection. It returns
// false when there is nothing to redo.
func (s *Store) Redo() bool {
	return s.travel("redo", s.history.Redo)
}

func (s *Store) travel(op string, step func(current []scene.SceneObject) ([]scene.SceneObject, bool)) bool {
	s.mu.Lock()
	objects, ok := step(s.objects)
	if ok {
		s.objects = objects
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.logger.Debug("history "+op, "objects", len(objects))
	s.notify(Change{Op: op, Slices: SliceObjects | SliceHistory})
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// HistoryDepth returns the number of undo and redo entries and the limit.
func (s *Store) HistoryDepth() (undo, redo, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.UndoDepth(), s.history.RedoDepth(), s.history.Limit()
}
