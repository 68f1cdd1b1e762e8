package input

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// Editor is the part of the store the dispatcher drives.
type Editor interface {
	IsPlayMode() bool
	SetPlayMode(bool)
	Interactions() []interaction.ObjectInteraction

	Undo() bool
	Redo() bool
	SelectAll()
	DeselectAll()
	SelectObject(id string, multi bool)
	CopySelectedObjects()
	PasteObjects()
	DuplicateSelectedObjects()
	DeleteSelectedObjects()
	SetTransformMode(store.TransformMode)
	UpdateObject(id string, p scene.ObjectPatch)

	TriggerObjectEvent(objectID string, ev interaction.EventType) int
	TriggerObjectKeyEvent(objectID string, ev interaction.EventType, key string) int
}

// Command names a shortcut outcome.
type Command string

const (
	CommandNone       Command = ""
	CommandUndo       Command = "undo"
	CommandRedo       Command = "redo"
	CommandSelectAll  Command = "select_all"
	CommandCopy       Command = "copy"
	CommandPaste      Command = "paste"
	CommandDuplicate  Command = "duplicate"
	CommandDeselect   Command = "deselect"
	CommandDelete     Command = "delete"
	CommandTranslate  Command = "translate"
	CommandRotate     Command = "rotate"
	CommandScale      Command = "scale"
	CommandInteracted Command = "interaction"
)

// KeyEvent is a keyboard event from the viewport.
type KeyEvent struct {
	// Type is keyDown, keyUp or keyPress. Empty means keyDown.
	Type  interaction.EventType `json:"type,omitempty"`
	Key   string                `json:"key"`
	Ctrl  bool                  `json:"ctrl,omitempty"`
	Meta  bool                  `json:"meta,omitempty"`
	Shift bool                  `json:"shift,omitempty"`
	Alt   bool                  `json:"alt,omitempty"`

	// InputFocused is set while a text field has focus.
	InputFocused bool `json:"input_focused,omitempty"`
}

// PointerEvent is a pointer event on an object. An empty ObjectID means the
// pointer hit empty space.
type PointerEvent struct {
	Type     interaction.EventType `json:"type"`
	ObjectID string                `json:"object_id,omitempty"`
	Ctrl     bool                  `json:"ctrl,omitempty"`
	Meta     bool                  `json:"meta,omitempty"`
	Shift    bool                  `json:"shift,omitempty"`
}

// Transform is a finished gizmo drag.
type Transform struct {
	Position *mgl64.Vec3 `json:"position,omitempty"`
	Rotation *mgl64.Vec3 `json:"rotation,omitempty"`
	Scale    *mgl64.Vec3 `json:"scale,omitempty"`
}

// Outcome reports what an event did.
type Outcome struct {
	Command Command `json:"command,omitempty"`

	// Matched is the number of interaction rules that fired in play mode.
	Matched int `json:"matched,omitempty"`
}

type shortcut func(Editor) Command

// Dispatcher routes viewport events.
type Dispatcher struct {
	editor Editor
	logger Logger

	modified map[string]shortcut // with Ctrl or Meta
	plain    map[string]shortcut // without modifiers
}

// NewDispatcher creates a dispatcher over editor.
func NewDispatcher(editor Editor, logger Logger) *Dispatcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		editor: editor,
		logger: logger,
		modified: map[string]shortcut{
			"a": func(e Editor) Command { e.SelectAll(); return CommandSelectAll },
			"c": func(e Editor) Command { e.CopySelectedObjects(); return CommandCopy },
			"v": func(e Editor) Command { e.PasteObjects(); return CommandPaste },
			"d": func(e Editor) Command { e.DuplicateSelectedObjects(); return CommandDuplicate },
		},
		plain: map[string]shortcut{
			"escape":    func(e Editor) Command { e.DeselectAll(); return CommandDeselect },
			"delete":    func(e Editor) Command { e.DeleteSelectedObjects(); return CommandDelete },
			"backspace": func(e Editor) Command { e.DeleteSelectedObjects(); return CommandDelete },
			"t":         func(e Editor) Command { e.SetTransformMode(store.TransformTranslate); return CommandTranslate },
			"r":         func(e Editor) Command { e.SetTransformMode(store.TransformRotate); return CommandRotate },
			"s":         func(e Editor) Command { e.SetTransformMode(store.TransformScale); return CommandScale },
		},
	}
}

// ─── Keyboard ───────────────────────────────────────────────────────

// HandleKey processes a key event.
//
// Undo and redo are honoured in every mode and even with an input focused.
// In play mode every other key is routed to the interaction engine; in edit
// mode it is looked up in the shortcut table, unless an input has focus.
func (d *Dispatcher) HandleKey(ev KeyEvent) (Outcome, error) {
	if ev.Type == "" {
		ev.Type = interaction.EventKeyDown
	}
	if ev.Key == "" || !ev.Type.IsKeyEvent() {
		return Outcome{}, fmt.Errorf("%w: type %q key %q", ErrInvalidKeyEvent, ev.Type, ev.Key)
	}

	// Shortcuts only fire on key down.
	if ev.Type == interaction.EventKeyDown {
		if cmd := d.history(ev); cmd != CommandNone {
			return Outcome{Command: cmd}, nil
		}
	}

	if d.editor.IsPlayMode() {
		return Outcome{Command: CommandInteracted, Matched: d.broadcastKey(ev)}, nil
	}
	if ev.Type != interaction.EventKeyDown || ev.InputFocused {
		return Outcome{}, nil
	}

	key := strings.ToLower(ev.Key)
	table := d.plain
	if ev.Ctrl || ev.Meta {
		table = d.modified
	} else if ev.Alt {
		return Outcome{}, nil
	}
	if fn, ok := table[key]; ok {
		cmd := fn(d.editor)
		d.logger.Debug("shortcut", "key", ev.Key, "command", string(cmd))
		return Outcome{Command: cmd}, nil
	}
	return Outcome{}, nil
}

// history handles Ctrl/Meta+Z, Shift+Ctrl/Meta+Z and Ctrl/Meta+Y.
func (d *Dispatcher) history(ev KeyEvent) Command {
	if !ev.Ctrl && !ev.Meta {
		return CommandNone
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Shift {
			d.editor.Redo()
			return CommandRedo
		}
		d.editor.Undo()
		return CommandUndo
	case "y":
		d.editor.Redo()
		return CommandRedo
	}
	return CommandNone
}

func (d *Dispatcher) broadcastKey(ev KeyEvent) int {
	matched := 0
	for _, oi := range d.editor.Interactions() {
		matched += d.editor.TriggerObjectKeyEvent(oi.ObjectID, ev.Type, ev.Key)
	}
	if matched > 0 {
		d.logger.Debug("key routed to interactions", "key", ev.Key, "event", string(ev.Type), "matched", matched)
	}
	return matched
}

// ─── Pointer ────────────────────────────────────────────────────────

// pointerEvents are the event types a pointer can produce.
var pointerEvents = map[interaction.EventType]bool{
	interaction.EventMouseEnter: true,
	interaction.EventMouseLeave: true,
	interaction.EventMouseDown:  true,
	interaction.EventMouseUp:    true,
	interaction.EventClick:      true,
}

// HandlePointer processes a pointer event.
//
// In play mode the event triggers the rules of the object under the
// pointer. In edit mode a click selects: Shift, Ctrl or Meta toggle
// membership, and a click on empty space clears the selection. Other
// pointer events are ignored while editing.
func (d *Dispatcher) HandlePointer(ev PointerEvent) (Outcome, error) {
	if !pointerEvents[ev.Type] {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidPointerEvent, ev.Type)
	}

	if d.editor.IsPlayMode() {
		if ev.ObjectID == "" {
			return Outcome{}, nil
		}
		return Outcome{Command: CommandInteracted, Matched: d.editor.TriggerObjectEvent(ev.ObjectID, ev.Type)}, nil
	}

	if ev.Type != interaction.EventClick {
		return Outcome{}, nil
	}
	if ev.ObjectID == "" {
		d.editor.DeselectAll()
		return Outcome{Command: CommandDeselect}, nil
	}
	d.editor.SelectObject(ev.ObjectID, ev.Shift || ev.Ctrl || ev.Meta)
	return Outcome{}, nil
}

// CommitTransform applies the final values of a gizmo drag as one
// undoable update. Nothing happens in play mode.
func (d *Dispatcher) CommitTransform(objectID string, tr Transform) {
	if d.editor.IsPlayMode() {
		return
	}
	d.editor.UpdateObject(objectID, scene.ObjectPatch{
		Position: tr.Position,
		Rotation: tr.Rotation,
		Scale:    tr.Scale,
	})
}

// ─── Play mode ──────────────────────────────────────────────────────

// EnterPlayMode switches to play mode and fires "start" on every object
// that has an interaction record. It returns the number of matched rules.
func (d *Dispatcher) EnterPlayMode() int {
	if d.editor.IsPlayMode() {
		return 0
	}
	d.editor.SetPlayMode(true)

	matched := 0
	for _, oi := range d.editor.Interactions() {
		matched += d.editor.TriggerObjectEvent(oi.ObjectID, interaction.EventStart)
	}
	d.logger.Info("play mode entered", "start_rules", matched)
	return matched
}

// ExitPlayMode returns to edit mode. Pending delayed actions are cancelled
// by the store.
func (d *Dispatcher) ExitPlayMode() {
	if !d.editor.IsPlayMode() {
		return
	}
	d.editor.SetPlayMode(false)
	d.logger.Info("play mode exited")
}
