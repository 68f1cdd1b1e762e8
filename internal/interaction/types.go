package interaction

import (
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// EventType identifies a viewport or scripted event an object can react to.
type EventType string

const (
	EventMouseEnter EventType = "mouseEnter"
	EventMouseLeave EventType = "mouseLeave"
	EventMouseDown  EventType = "mouseDown"
	EventMouseUp    EventType = "mouseUp"
	EventClick      EventType = "click"
	EventKeyDown    EventType = "keyDown"
	EventKeyUp      EventType = "keyUp"
	EventKeyPress   EventType = "keyPress"
	EventStart      EventType = "start"
)

// AllEventTypes returns all valid event types.
func AllEventTypes() []EventType {
	return []EventType{
		EventMouseEnter,
		EventMouseLeave,
		EventMouseDown,
		EventMouseUp,
		EventClick,
		EventKeyDown,
		EventKeyUp,
		EventKeyPress,
		EventStart,
	}
}

// IsKeyEvent reports whether the event carries a key name.
func (e EventType) IsKeyEvent() bool {
	return e == EventKeyDown || e == EventKeyUp || e == EventKeyPress
}

// ActionType identifies what an action does when it runs.
type ActionType string

const (
	ActionSetState      ActionType = "setState"
	ActionToggleState   ActionType = "toggleState"
	ActionPlayAnimation ActionType = "playAnimation"
	ActionStopAnimation ActionType = "stopAnimation"
	ActionResetScene    ActionType = "resetScene"
)

// AllActionTypes returns all valid action types.
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionSetState,
		ActionToggleState,
		ActionPlayAnimation,
		ActionStopAnimation,
		ActionResetScene,
	}
}

// Easing is a cosmetic transition curve passed through to the animation hook.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseIn    Easing = "easeIn"
	EasingEaseOut   Easing = "easeOut"
	EasingEaseInOut Easing = "easeInOut"
)

// AllEasings returns all valid easing curves.
func AllEasings() []Easing {
	return []Easing{EasingLinear, EasingEaseIn, EasingEaseOut, EasingEaseInOut}
}

// DefaultStateID is the id of the mandatory state present in every record.
const DefaultStateID = "default"

// Template values for newly created rules and actions.
const (
	DefaultRuleName       = "New Interaction"
	DefaultActionDuration = 300
	DefaultActionEasing   = EasingEaseInOut
)

// ObjectState is a named partial override of an object's properties.
type ObjectState struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties scene.ObjectPatch `json:"properties"`
	IsDefault  bool              `json:"is_default"`
}

// EventConfig selects the event a rule reacts to.
//
// Key is only meaningful for key events. A nil or empty Key matches any key.
type EventConfig struct {
	ID      string    `json:"id,omitempty"`
	Type    EventType `json:"type"`
	Enabled bool      `json:"enabled"`
	Key     *string   `json:"key,omitempty"`
}

// ActionConfig is one step of a rule.
//
// TargetStateID is used by setState only. TargetObjectID defaults to the
// object that triggered the event.
type ActionConfig struct {
	ID             string     `json:"id"`
	Type           ActionType `json:"type"`
	TargetStateID  *string    `json:"target_state_id,omitempty"`
	TargetObjectID *string    `json:"target_object_id,omitempty"`
	DelayMS        int        `json:"delay_ms"`    // >= 0; 0 runs synchronously
	DurationMS     int        `json:"duration_ms"` // passed to the animation hook
	Easing         Easing     `json:"easing"`
}

// InteractionRule binds one event to an ordered list of actions.
type InteractionRule struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Enabled bool           `json:"enabled"`
	Event   EventConfig    `json:"event"`
	Actions []ActionConfig `json:"actions"`
}

// ObjectInteraction is the interaction record of one object.
type ObjectInteraction struct {
	ObjectID       string            `json:"object_id"`
	States         []ObjectState     `json:"states"`
	CurrentStateID string            `json:"current_state_id"`
	Rules          []InteractionRule `json:"rules"`
}

// StatePatch is a partial update of an ObjectState.
//
// The default flag is not patchable. Properties, when present, replace the
// state's override set wholesale.
type StatePatch struct {
	Name       *string            `json:"name,omitempty"`
	Properties *scene.ObjectPatch `json:"properties,omitempty"`
}

// RulePatch is a partial update of an InteractionRule.
type RulePatch struct {
	Name    *string         `json:"name,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
	Event   *EventConfig    `json:"event,omitempty"`
	Actions *[]ActionConfig `json:"actions,omitempty"`
}

// TargetObject resolves the object an action applies to.
func (a ActionConfig) TargetObject(sourceObjectID string) string {
	if a.TargetObjectID != nil && *a.TargetObjectID != "" {
		return *a.TargetObjectID
	}
	return sourceObjectID
}

// ─── Deep copies ────────────────────────────────────────────────────

// Clone returns an independent copy of the record.
func (oi ObjectInteraction) Clone() ObjectInteraction {
	cpy := oi
	if oi.States != nil {
		cpy.States = make([]ObjectState, len(oi.States))
		for i, s := range oi.States {
			cpy.States[i] = s.Clone()
		}
	}
	if oi.Rules != nil {
		cpy.Rules = make([]InteractionRule, len(oi.Rules))
		for i, r := range oi.Rules {
			cpy.Rules[i] = r.Clone()
		}
	}
	return cpy
}

// Clone returns an independent copy of the state.
func (s ObjectState) Clone() ObjectState {
	cpy := s
	cpy.Properties = s.Properties.Clone()
	return cpy
}

// Clone returns an independent copy of the rule.
func (r InteractionRule) Clone() InteractionRule {
	cpy := r
	cpy.Event.Key = cloneString(r.Event.Key)
	if r.Actions != nil {
		cpy.Actions = make([]ActionConfig, len(r.Actions))
		for i, a := range r.Actions {
			cpy.Actions[i] = a.Clone()
		}
	}
	return cpy
}

// Clone returns an independent copy of the action.
func (a ActionConfig) Clone() ActionConfig {
	cpy := a
	cpy.TargetStateID = cloneString(a.TargetStateID)
	cpy.TargetObjectID = cloneString(a.TargetObjectID)
	return cpy
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
