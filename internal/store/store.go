package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nerrad567/scenecraft-core/internal/history"
	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/persistence"
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// TransformMode selects the viewport gizmo.
type TransformMode string

const (
	TransformTranslate TransformMode = "translate"
	TransformRotate    TransformMode = "rotate"
	TransformScale     TransformMode = "scale"
)

// Valid reports whether m is a known transform mode.
func (m TransformMode) Valid() bool {
	return m == TransformTranslate || m == TransformRotate || m == TransformScale
}

// Default editor values.
const (
	DefaultPasteOffset = 1.0
	DefaultSnapSize    = 0.5
)

// Options configures a new Store.
type Options struct {
	// Defaults is the entity default table (zero value = scene.DefaultValues()).
	Defaults *scene.Defaults

	// PasteOffset is the x/z delta applied by paste and duplicate.
	PasteOffset *float64

	// UndoLimit is the history depth (<= 0 uses history.DefaultLimit).
	UndoLimit int

	// SnapSize is the initial snap size (<= 0 uses DefaultSnapSize).
	SnapSize float64

	// Seed rehydrates objects and interaction records. It is not recorded
	// in history.
	Seed *persistence.Snapshot

	// Clock schedules delayed interaction actions (nil = real time).
	Clock interaction.Clock

	// Logger receives store and engine logs (nil = discard).
	Logger Logger
}

// Store is the scene state container.
//
// Thread Safety: all methods are safe for concurrent use.
type Store struct {
	mu sync.Mutex

	// Tracked slice
	objects []scene.SceneObject // copy-on-write; never mutated in place
	history *history.History[[]scene.SceneObject]

	// Untracked slice
	lights           []scene.SceneLight
	bookmarks        []scene.CameraBookmark
	interactions     map[string]interaction.ObjectInteraction
	interactionOrder []string
	selectedIDs      []string
	selectedLightID  string
	clipboard        []scene.SceneObject
	transformMode    TransformMode
	snapEnabled      bool
	snapSize         float64
	exporting        bool
	playMode         bool

	factory     *scene.Factory
	pasteOffset float64
	engine      *interaction.Engine
	logger      Logger

	listenersMu  sync.Mutex
	listeners    map[uint64]Listener
	nextListener uint64
}

// New creates a Store. A fresh store holds no objects and the two default lights.
func New(opts Options) *Store {
	defaults := scene.DefaultValues()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
	}
	pasteOffset := DefaultPasteOffset
	if opts.PasteOffset != nil {
		pasteOffset = *opts.PasteOffset
	}
	snapSize := opts.SnapSize
	if snapSize <= 0 {
		snapSize = DefaultSnapSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	s := &Store{
		objects:       []scene.SceneObject{},
		history:       history.New[[]scene.SceneObject](opts.UndoLimit),
		lights:        scene.DefaultLights(defaults),
		bookmarks:     []scene.CameraBookmark{},
		interactions:  make(map[string]interaction.ObjectInteraction),
		selectedIDs:   []string{},
		clipboard:     []scene.SceneObject{},
		transformMode: TransformTranslate,
		snapSize:      snapSize,
		factory:       scene.NewFactory(defaults),
		pasteOffset:   pasteOffset,
		logger:        logger,
		listeners:     make(map[uint64]Listener),
	}
	s.engine = interaction.NewEngine(s, opts.Clock, logger)

	if opts.Seed != nil {
		s.seed(*opts.Seed)
	}
	return s
}

// seed loads persisted objects and records. Duplicate object ids are
// dropped, as are records whose object is missing.
func (s *Store) seed(snap persistence.Snapshot) {
	seen := make(map[string]struct{}, len(snap.Objects))
	objects := make([]scene.SceneObject, 0, len(snap.Objects))
	for _, o := range snap.Objects {
		if o.ID == "" {
			continue
		}
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		objects = append(objects, o.Clone())
	}
	s.objects = objects

	for _, oi := range snap.ObjectInteractions {
		if _, ok := seen[oi.ObjectID]; !ok {
			continue
		}
		if _, dup := s.interactions[oi.ObjectID]; dup {
			continue
		}
		s.putInteraction(oi.Normalized())
	}
	s.logger.Info("store rehydrated",
		"objects", len(s.objects),
		"interactions", len(s.interactions),
	)
}

// Engine returns the interaction engine bound to this store.
func (s *Store) Engine() *interaction.Engine {
	return s.engine
}

// Factory returns the entity factory used by the store.
func (s *Store) Factory() *scene.Factory {
	return s.factory
}

// ─── Mutation plumbing ──────────────────────────────────────────────

// mutate runs fn under the lock. fn reports which untracked slices it
// changed; the objects slice is detected by comparison and recorded in
// history when it differs. Listeners are notified after unlock.
func (s *Store) mutate(op string, fn func() Slice) {
	s.mu.Lock()
	prev := s.objects
	changed := fn()
	if scene.ObjectsEqual(prev, s.objects) {
		// A no-op write must not create an undo step.
		s.objects = prev
		changed &^= SliceObjects
	} else {
		s.history.Record(prev)
		changed |= SliceObjects | SliceHistory
	}
	s.mu.Unlock()

	if changed != 0 {
		s.logger.Debug("store mutation", "op", op, "slices", changed.Names())
		s.notify(Change{Op: op, Slices: changed})
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	s.nextListener++
	id := s.nextListener
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.listenersMu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	ls := make([]Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range ls {
		s.safeCall(l, c)
	}
}

func (s *Store) safeCall(l Listener, c Change) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store listener panicked", "op", c.Op, "panic", fmt.Sprint(r))
		}
	}()
	l(c)
}

// ─── Read model ─────────────────────────────────────────────────────

// State is a deep-copied snapshot of the whole store.
type State struct {
	Objects            []scene.SceneObject             `json:"objects"`
	Lights             []scene.SceneLight              `json:"lights"`
	CameraBookmarks    []scene.CameraBookmark          `json:"camera_bookmarks"`
	ObjectInteractions []interaction.ObjectInteraction `json:"object_interactions"`
	SelectedIDs        []string                        `json:"selected_ids"`
	SelectedLightID    string                          `json:"selected_light_id,omitempty"`
	Clipboard          []scene.SceneObject             `json:"clipboard"`
	TransformMode      TransformMode                   `json:"transform_mode"`
	SnapEnabled        bool                            `json:"snap_enabled"`
	SnapSize           float64                         `json:"snap_size"`
	IsExporting        bool                            `json:"is_exporting"`
	IsPlayMode         bool                            `json:"is_play_mode"`
	CanUndo            bool                            `json:"can_undo"`
	CanRedo            bool                            `json:"can_redo"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Objects:            scene.CloneObjects(s.objects),
		Lights:             append([]scene.SceneLight{}, s.lights...),
		CameraBookmarks:    append([]scene.CameraBookmark{}, s.bookmarks...),
		ObjectInteractions: s.interactionsLocked(),
		SelectedIDs:        append([]string{}, s.selectedIDs...),
		SelectedLightID:    s.selectedLightID,
		Clipboard:          scene.CloneObjects(s.clipboard),
		TransformMode:      s.transformMode,
		SnapEnabled:        s.snapEnabled,
		SnapSize:           s.snapSize,
		IsExporting:        s.exporting,
		IsPlayMode:         s.playMode,
		CanUndo:            s.history.CanUndo(),
		CanRedo:            s.history.CanRedo(),
	}
}

// PersistedSnapshot returns the durable projection: objects and
// interaction records.
func (s *Store) PersistedSnapshot() persistence.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return persistence.Snapshot{
		Objects:            scene.CloneObjects(s.objects),
		ObjectInteractions: s.interactionsLocked(),
	}
}

// Objects returns a copy of the object collection.
func (s *Store) Objects() []scene.SceneObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scene.CloneObjects(s.objects)
}

// Object returns a copy of one object.
func (s *Store) Object(id string) (scene.SceneObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.objectIndex(id); i >= 0 {
		return s.objects[i].Clone(), true
	}
	return scene.SceneObject{}, false
}

// ObjectIDs returns the ids of all objects in collection order.
func (s *Store) ObjectIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.objects))
	for i, o := range s.objects {
		ids[i] = o.ID
	}
	return ids
}

// SelectedIDs returns a copy of the object selection.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.selectedIDs...)
}

// SelectedLightID returns the selected light id, or "" when none.
func (s *Store) SelectedLightID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLightID
}

// Clipboard returns a copy of the clipboard.
func (s *Store) Clipboard() []scene.SceneObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scene.CloneObjects(s.clipboard)
}

// Lights returns a copy of the light collection.
func (s *Store) Lights() []scene.SceneLight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scene.SceneLight{}, s.lights...)
}

// CameraBookmarks returns a copy of the bookmark collection.
func (s *Store) CameraBookmarks() []scene.CameraBookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scene.CameraBookmark{}, s.bookmarks...)
}

// IsPlayMode reports whether viewport events are routed to interactions.
func (s *Store) IsPlayMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playMode
}

// IsExporting reports whether an export has been requested and not finished.
func (s *Store) IsExporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

func (s *Store) objectIndex(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}
