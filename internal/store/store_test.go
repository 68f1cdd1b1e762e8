package store

import (
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/persistence"
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// ─── Test doubles ───────────────────────────────────────────────────

// fakeClock fires timers only when Advance is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	due     time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) interaction.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, due: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.due <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		t.f()
	}
}

// changeLog records every notification.
type changeLog struct {
	mu      sync.Mutex
	changes []Change
}

func (l *changeLog) listen(c Change) {
	l.mu.Lock()
	l.changes = append(l.changes, c)
	l.mu.Unlock()
}

func (l *changeLog) last() Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.changes) == 0 {
		return Change{}
	}
	return l.changes[len(l.changes)-1]
}

func (l *changeLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.changes)
}

// ─── Helpers ────────────────────────────────────────────────────────

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	return New(Options{Clock: clock}), clock
}

func mustObject(t *testing.T, s *Store, id string) scene.SceneObject {
	t.Helper()
	o, ok := s.Object(id)
	if !ok {
		t.Fatalf("object %s not found", id)
	}
	return o
}

func sameSet(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// ─── Construction ───────────────────────────────────────────────────

func TestNewStoreDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	st := s.Snapshot()

	if len(st.Objects) != 0 {
		t.Errorf("Objects = %d, want 0", len(st.Objects))
	}
	if len(st.Lights) != 2 {
		t.Fatalf("Lights = %d, want the two default lights", len(st.Lights))
	}
	if st.Lights[0].ID != scene.DefaultAmbientLightID || st.Lights[1].ID != scene.DefaultDirectionalLightID {
		t.Errorf("Lights = %s, %s", st.Lights[0].ID, st.Lights[1].ID)
	}
	if st.TransformMode != TransformTranslate || st.SnapSize != DefaultSnapSize {
		t.Errorf("TransformMode = %s, SnapSize = %v", st.TransformMode, st.SnapSize)
	}
	if st.CanUndo || st.CanRedo || st.IsPlayMode || st.IsExporting {
		t.Errorf("flags = %+v, want all false", st)
	}
	if st.SelectedIDs == nil || st.Clipboard == nil {
		t.Error("empty collections should be non-nil")
	}
}

func TestSeedFromSnapshot(t *testing.T) {
	a := scene.SceneObject{ID: "A", Type: scene.ShapeBox, Name: "A"}
	b := scene.SceneObject{ID: "B", Type: scene.ShapeSphere, Name: "B"}
	good := interaction.NewObjectInteraction("A")
	orphan := interaction.NewObjectInteraction("ghost")
	broken := interaction.ObjectInteraction{ObjectID: "B", CurrentStateID: "gone"}

	s := New(Options{Seed: &persistence.Snapshot{
		Objects:            []scene.SceneObject{a, b, {ID: "A", Name: "dup"}, {ID: ""}},
		ObjectInteractions: []interaction.ObjectInteraction{good, orphan, broken},
	}})

	if got := s.ObjectIDs(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("ObjectIDs() = %v, want [A B]", got)
	}
	if s.CanUndo() {
		t.Error("seeding must not record history")
	}
	if _, ok := s.Interaction("ghost"); ok {
		t.Error("orphan record should be dropped")
	}
	oi, ok := s.Interaction("B")
	if !ok {
		t.Fatal("record for B should be kept")
	}
	if oi.CurrentStateID != interaction.DefaultStateID {
		t.Errorf("CurrentStateID = %q, want normalised to default", oi.CurrentStateID)
	}
	if _, ok := oi.State(interaction.DefaultStateID); !ok {
		t.Error("normalised record should hold the default state")
	}
}

// ─── Objects ────────────────────────────────────────────────────────

func TestAddObjectDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i, shape := range scene.AllShapeTypes() {
		id := s.AddObject(shape)
		if id == "" || seen[id] {
			t.Fatalf("AddObject #%d returned duplicate or empty id %q", i, id)
		}
		seen[id] = true

		if got := s.SelectedIDs(); !slices.Equal(got, []string{id}) {
			t.Errorf("SelectedIDs() = %v, want only the new object", got)
		}
	}
	if got := len(s.Objects()); got != len(scene.AllShapeTypes()) {
		t.Errorf("len(Objects) = %d, want %d", got, len(scene.AllShapeTypes()))
	}
}

func TestAddObjectClearsLightSelection(t *testing.T) {
	s, _ := newTestStore(t)
	s.SelectLight(scene.DefaultAmbientLightID)

	s.AddObject(scene.ShapeBox)
	if s.SelectedLightID() != "" {
		t.Error("adding an object should clear the light selection")
	}
}

func TestUpdateObject(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddObject(scene.ShapeBox)

	s.UpdateObject(id, scene.ObjectPatch{
		Name:      ptr("Crate"),
		Position:  ptr(mgl64.Vec3{1, 2, 3}),
		Roughness: ptr(4.0),
		Metalness: ptr(-1.0),
	})

	o := mustObject(t, s, id)
	if o.Name != "Crate" || o.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("object = %+v", o)
	}
	if o.Roughness != 1 || o.Metalness != 0 {
		t.Errorf("Roughness = %v, Metalness = %v, want clamped to [0,1]", o.Roughness, o.Metalness)
	}
	if o.Type != scene.ShapeBox {
		t.Errorf("Type = %s, must never change", o.Type)
	}
}

func TestUpdateObjectMissOrNoopRecordsNothing(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddObject(scene.ShapeBox)
	undoBefore, _, _ := s.HistoryDepth()

	log := &changeLog{}
	s.Subscribe(log.listen)

	s.UpdateObject("missing", scene.ObjectPatch{Name: ptr("x")})
	s.UpdateObject(id, scene.ObjectPatch{Name: ptr(mustObject(t, s, id).Name)})

	if undo, _, _ := s.HistoryDepth(); undo != undoBefore {
		t.Errorf("undo depth = %d, want %d", undo, undoBefore)
	}
	if log.len() != 0 {
		t.Errorf("notifications = %d, want 0", log.len())
	}
}

func TestUpdateSelectedObjects(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	b := s.AddObject(scene.ShapeSphere)
	c := s.AddObject(scene.ShapeCone)
	s.SelectObject(a, false)
	s.SelectObject(b, true)

	s.UpdateSelectedObjects(scene.ObjectPatch{Color: ptr("#00ff00")})

	if mustObject(t, s, a).Color != "#00ff00" || mustObject(t, s, b).Color != "#00ff00" {
		t.Error("selected objects should be updated")
	}
	if mustObject(t, s, c).Color == "#00ff00" {
		t.Error("unselected object should not be updated")
	}
}

func TestDeleteSelectedObjectsCascades(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	b := s.AddObject(scene.ShapeSphere)
	keep := s.AddObject(scene.ShapeCone)
	s.AddObjectState(a, interaction.ObjectState{Name: "hidden"})
	s.AddObjectState(keep, interaction.ObjectState{Name: "hidden"})
	s.SelectObject(a, false)
	s.SelectObject(b, true)

	s.DeleteSelectedObjects()

	if len(s.SelectedIDs()) != 0 {
		t.Errorf("SelectedIDs() = %v, want empty", s.SelectedIDs())
	}
	if got := s.ObjectIDs(); !slices.Equal(got, []string{keep}) {
		t.Errorf("ObjectIDs() = %v, want [%s]", got, keep)
	}
	for _, oi := range s.Interactions() {
		if oi.ObjectID == a || oi.ObjectID == b {
			t.Errorf("interaction record for deleted %s survived", oi.ObjectID)
		}
	}
	if _, ok := s.Interaction(keep); !ok {
		t.Error("record of surviving object should remain")
	}
}

func TestDeleteObjectRemovesFromSelection(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	b := s.AddObject(scene.ShapeSphere)
	s.SelectAll()

	s.DeleteObject(a)
	if got := s.SelectedIDs(); !slices.Equal(got, []string{b}) {
		t.Errorf("SelectedIDs() = %v, want [%s]", got, b)
	}

	s.DeleteObject("missing")
	if len(s.Objects()) != 1 {
		t.Error("deleting a missing id should be a no-op")
	}
}

// ─── Selection ──────────────────────────────────────────────────────

func TestSelectObject(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	b := s.AddObject(scene.ShapeSphere)

	s.SelectObject(a, false)
	if got := s.SelectedIDs(); !slices.Equal(got, []string{a}) {
		t.Fatalf("single select = %v, want [%s]", got, a)
	}

	before := s.SelectedIDs()
	s.SelectObject(b, true)
	if !sameSet(s.SelectedIDs(), []string{a, b}) {
		t.Errorf("multi select = %v, want {a, b}", s.SelectedIDs())
	}
	s.SelectObject(b, true)
	if !sameSet(s.SelectedIDs(), before) {
		t.Errorf("two toggles = %v, want %v", s.SelectedIDs(), before)
	}

	s.SelectObject("missing", false)
	if !sameSet(s.SelectedIDs(), before) {
		t.Errorf("unknown id changed selection to %v", s.SelectedIDs())
	}

	s.SelectObject("", false)
	if len(s.SelectedIDs()) != 0 {
		t.Errorf("empty id should clear selection, got %v", s.SelectedIDs())
	}
}

func TestSelectAllAndDeselectAll(t *testing.T) {
	s, _ := newTestStore(t)
	ids := []string{s.AddObject(scene.ShapeBox), s.AddObject(scene.ShapeTorus)}
	s.SelectLight(scene.DefaultAmbientLightID)

	s.SelectAll()
	if !sameSet(s.SelectedIDs(), ids) {
		t.Errorf("SelectAll() = %v, want %v", s.SelectedIDs(), ids)
	}
	if s.SelectedLightID() != "" {
		t.Error("SelectAll() should clear the light selection")
	}

	s.DeselectAll()
	if len(s.SelectedIDs()) != 0 {
		t.Errorf("DeselectAll() left %v", s.SelectedIDs())
	}
}

func TestSelectionDoesNotRecordHistory(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddObject(scene.ShapeBox)
	undo, _, _ := s.HistoryDepth()

	s.SelectAll()
	s.DeselectAll()

	if got, _, _ := s.HistoryDepth(); got != undo {
		t.Errorf("undo depth = %d, want %d", got, undo)
	}
}

// ─── Clipboard ──────────────────────────────────────────────────────

func TestCopyPaste(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	b := s.AddObject(scene.ShapeSphere)
	s.UpdateObject(a, scene.ObjectPatch{Position: ptr(mgl64.Vec3{1, 2, 3})})
	s.SelectAll()
	sources := map[string]scene.SceneObject{a: mustObject(t, s, a), b: mustObject(t, s, b)}

	s.CopySelectedObjects()
	s.PasteObjects()

	objs := s.Objects()
	if len(objs) != 4 {
		t.Fatalf("len(Objects) = %d, want 4", len(objs))
	}
	pasted := objs[2:]
	if !sameSet(s.SelectedIDs(), []string{pasted[0].ID, pasted[1].ID}) {
		t.Errorf("selection = %v, want exactly the pasted ids", s.SelectedIDs())
	}

	for i, src := range []scene.SceneObject{sources[a], sources[b]} {
		got := pasted[i]
		if got.ID == src.ID {
			t.Errorf("pasted object reuses id %s", src.ID)
		}
		if got.Name != src.Name+scene.CopySuffix {
			t.Errorf("Name = %q, want %q", got.Name, src.Name+scene.CopySuffix)
		}
		want := src.Position.Add(mgl64.Vec3{DefaultPasteOffset, 0, DefaultPasteOffset})
		if got.Position != want {
			t.Errorf("Position = %v, want %v", got.Position, want)
		}
	}
}

func TestCopyIsDeepAndIndependent(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	s.UpdateObject(a, scene.ObjectPatch{Opacity: ptr(0.5)})
	original := mustObject(t, s, a)

	s.CopySelectedObjects()
	s.UpdateObject(a, scene.ObjectPatch{Name: ptr("Changed"), Opacity: ptr(0.9)})
	s.DeselectAll()

	clip := s.Clipboard()
	if len(clip) != 1 {
		t.Fatalf("clipboard = %d entries, want 1", len(clip))
	}
	if !clip[0].Equal(original) {
		t.Errorf("clipboard = %+v, want %+v", clip[0], original)
	}
}

func TestCopyWithEmptySelection(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddObject(scene.ShapeBox)
	s.DeselectAll()

	s.CopySelectedObjects()
	if len(s.Clipboard()) != 0 {
		t.Error("copy with nothing selected should leave an empty clipboard")
	}

	s.PasteObjects()
	if len(s.Objects()) != 1 {
		t.Error("paste with an empty clipboard should be a no-op")
	}
}

func TestDuplicateSelectedObjects(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)

	s.DeselectAll()
	s.DuplicateSelectedObjects()
	if len(s.Objects()) != 1 {
		t.Fatal("duplicate with empty selection should be a no-op")
	}

	s.SelectObject(a, false)
	s.DuplicateSelectedObjects()
	objs := s.Objects()
	if len(objs) != 2 {
		t.Fatalf("len(Objects) = %d, want 2", len(objs))
	}
	if objs[1].Name != objs[0].Name+scene.CopySuffix {
		t.Errorf("Name = %q", objs[1].Name)
	}
	if len(s.Clipboard()) != 0 {
		t.Error("duplicate should not touch the clipboard")
	}
}

func TestPasteOffsetOption(t *testing.T) {
	s := New(Options{PasteOffset: ptr(2.5)})
	a := s.AddObject(scene.ShapeBox)
	s.DuplicateSelectedObjects()

	src := mustObject(t, s, a)
	cpy := s.Objects()[1]
	if cpy.Position != src.Position.Add(mgl64.Vec3{2.5, 0, 2.5}) {
		t.Errorf("Position = %v, want offset 2.5 on x and z", cpy.Position)
	}
}

// ─── History ────────────────────────────────────────────────────────

func TestUndoRedo(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	before := s.Objects()

	s.UpdateObject(a, scene.ObjectPatch{Name: ptr("Moved"), Position: ptr(mgl64.Vec3{5, 0, 0})})
	after := s.Objects()

	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	if !scene.ObjectsEqual(s.Objects(), before) {
		t.Errorf("after undo = %+v, want %+v", s.Objects(), before)
	}
	if !s.Redo() {
		t.Fatal("Redo() = false")
	}
	if !scene.ObjectsEqual(s.Objects(), after) {
		t.Errorf("after redo = %+v, want %+v", s.Objects(), after)
	}

	s.Undo()
	s.AddObject(scene.ShapeSphere)
	if s.CanRedo() {
		t.Error("a new mutation after undo should clear redo")
	}
	if s.Redo() {
		t.Error("Redo() should be a no-op after a new mutation")
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s, _ := newTestStore(t)
	if s.Undo() || s.Redo() {
		t.Error("Undo/Redo on a fresh store should report false")
	}
}

func TestUndoLeavesUntrackedState(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	lightID := s.AddLight(scene.LightPoint)
	s.AddObjectState(a, interaction.ObjectState{Name: "hidden"})
	s.SelectObject(a, false)

	s.Undo() // removes the box

	if len(s.Objects()) != 0 {
		t.Fatalf("Objects = %d, want 0", len(s.Objects()))
	}
	if !slices.Equal(s.SelectedIDs(), []string{a}) {
		t.Errorf("selection = %v, want untouched by undo", s.SelectedIDs())
	}
	if slices.IndexFunc(s.Lights(), func(l scene.SceneLight) bool { return l.ID == lightID }) < 0 {
		t.Error("lights must not be affected by undo")
	}
	if _, ok := s.Interaction(a); !ok {
		t.Error("interaction records must not be affected by undo")
	}
}

func TestUndoLimit(t *testing.T) {
	s := New(Options{UndoLimit: 3})
	for i := 0; i < 5; i++ {
		s.AddObject(scene.ShapeBox)
	}

	undo, _, limit := s.HistoryDepth()
	if undo != 3 || limit != 3 {
		t.Fatalf("HistoryDepth() = %d/%d, want 3/3", undo, limit)
	}
	for s.Undo() {
	}
	if got := len(s.Objects()); got != 2 {
		t.Errorf("after exhausting undo Objects = %d, want 2", got)
	}
}

// ─── Lights and bookmarks ───────────────────────────────────────────

func TestLightsSelectionIsExclusive(t *testing.T) {
	s, _ := newTestStore(t)
	obj := s.AddObject(scene.ShapeBox)

	id := s.AddLight(scene.LightSpot)
	if s.SelectedLightID() != id {
		t.Errorf("SelectedLightID() = %q, want the new light", s.SelectedLightID())
	}
	if len(s.SelectedIDs()) != 0 {
		t.Error("adding a light should clear object selection")
	}

	s.SelectObject(obj, false)
	if s.SelectedLightID() != "" {
		t.Error("selecting an object should clear light selection")
	}

	s.SelectLight(id)
	if len(s.SelectedIDs()) != 0 || s.SelectedLightID() != id {
		t.Error("selecting a light should clear object selection")
	}

	s.SelectLight("missing")
	if s.SelectedLightID() != id {
		t.Error("selecting an unknown light should be a no-op")
	}
}

func TestUpdateAndDeleteLight(t *testing.T) {
	s, _ := newTestStore(t)

	s.UpdateLight(scene.DefaultAmbientLightID, scene.LightPatch{
		Intensity:  ptr(-3.0),
		CastShadow: ptr(true),
	})
	var ambient scene.SceneLight
	for _, l := range s.Lights() {
		if l.ID == scene.DefaultAmbientLightID {
			ambient = l
		}
	}
	if ambient.Intensity != 0 || ambient.CastShadow {
		t.Errorf("ambient = %+v, want intensity clamped and no shadow", ambient)
	}

	s.SelectLight(scene.DefaultAmbientLightID)
	s.DeleteLight(scene.DefaultAmbientLightID)
	if len(s.Lights()) != 1 || s.SelectedLightID() != "" {
		t.Errorf("after delete lights = %d, selected = %q", len(s.Lights()), s.SelectedLightID())
	}
	if s.CanUndo() {
		t.Error("light operations must not record history")
	}
}

func TestCameraBookmarks(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddCameraBookmark("Front", mgl64.Vec3{0, 2, 10}, mgl64.Vec3{})
	s.AddCameraBookmark("", mgl64.Vec3{10, 2, 0}, mgl64.Vec3{})

	bms := s.CameraBookmarks()
	if len(bms) != 2 || bms[0].ID != id || bms[0].Name != "Front" {
		t.Fatalf("bookmarks = %+v", bms)
	}
	if bms[1].Name == "" {
		t.Error("a blank bookmark name should get a default")
	}

	s.DeleteCameraBookmark(id)
	s.DeleteCameraBookmark("missing")
	if got := s.CameraBookmarks(); len(got) != 1 || got[0].ID == id {
		t.Errorf("bookmarks after delete = %+v", got)
	}
}

// ─── Settings ───────────────────────────────────────────────────────

func TestSettings(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetTransformMode(TransformRotate)
	s.SetTransformMode("shear")
	if s.TransformMode() != TransformRotate {
		t.Errorf("TransformMode() = %s, want rotate", s.TransformMode())
	}

	s.SetSnapEnabled(true)
	s.SetSnapSize(0.25)
	s.SetSnapSize(-1)
	st := s.Snapshot()
	if !st.SnapEnabled || st.SnapSize != 0.25 {
		t.Errorf("snap = %v/%v, want true/0.25", st.SnapEnabled, st.SnapSize)
	}

	s.SetExporting(true)
	if !s.IsExporting() {
		t.Error("IsExporting() = false")
	}
	s.SetPlayMode(true)
	if !s.IsPlayMode() {
		t.Error("IsPlayMode() = false")
	}
}

// ─── Notifications ──────────────────────────────────────────────────

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)
	log := &changeLog{}
	unsubscribe := s.Subscribe(log.listen)

	s.AddObject(scene.ShapeBox)
	c := log.last()
	if c.Op != "add_object" {
		t.Errorf("Op = %q, want add_object", c.Op)
	}
	if !c.Slices.Has(SliceObjects) || !c.Slices.Has(SliceSelection) || !c.Slices.Has(SliceHistory) {
		t.Errorf("Slices = %v", c.Slices.Names())
	}
	if !c.Slices.Has(Persisted) {
		t.Error("object changes should be persisted")
	}

	s.SetSnapEnabled(true)
	if c := log.last(); c.Slices.Has(Persisted) {
		t.Errorf("settings change %v should not be persisted", c.Slices.Names())
	}

	unsubscribe()
	unsubscribe()
	n := log.len()
	s.AddObject(scene.ShapeBox)
	if log.len() != n {
		t.Error("unsubscribed listener was called")
	}
}

func TestListenerPanicIsContained(t *testing.T) {
	s, _ := newTestStore(t)
	log := &changeLog{}
	s.Subscribe(func(Change) { panic("boom") })
	s.Subscribe(log.listen)

	s.AddObject(scene.ShapeBox)
	if log.len() != 1 {
		t.Errorf("second listener calls = %d, want 1", log.len())
	}
}

func TestListenerMayReadStore(t *testing.T) {
	s, _ := newTestStore(t)
	var seen int
	s.Subscribe(func(Change) { seen = len(s.Objects()) })

	s.AddObject(scene.ShapeBox)
	if seen != 1 {
		t.Errorf("listener saw %d objects, want 1", seen)
	}
}

func TestPersistedSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddObject(scene.ShapeBox)
	s.AddObjectState(a, interaction.ObjectState{Name: "hidden"})
	s.AddLight(scene.LightPoint)

	snap := s.PersistedSnapshot()
	if len(snap.Objects) != 1 || len(snap.ObjectInteractions) != 1 {
		t.Errorf("snapshot = %d objects, %d records", len(snap.Objects), len(snap.ObjectInteractions))
	}
}
