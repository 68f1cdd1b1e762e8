package interaction

import (
	"fmt"
	"strings"

	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// Validation constants.
const (
	maxNameLength   = 100
	maxActions      = 50
	maxDelayMS      = 300000 // 5 minutes
	maxDurationMS   = 60000  // 1 minute
	maxKeyNameBytes = 32
)

var (
	validEvents  map[EventType]struct{}
	validActions map[ActionType]struct{}
	validEasings map[Easing]struct{}
)

func init() {
	validEvents = make(map[EventType]struct{}, len(AllEventTypes()))
	for _, e := range AllEventTypes() {
		validEvents[e] = struct{}{}
	}
	validActions = make(map[ActionType]struct{}, len(AllActionTypes()))
	for _, a := range AllActionTypes() {
		validActions[a] = struct{}{}
	}
	validEasings = make(map[Easing]struct{}, len(AllEasings()))
	for _, e := range AllEasings() {
		validEasings[e] = struct{}{}
	}
}

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	_, ok := validEvents[e]
	return ok
}

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	_, ok := validActions[a]
	return ok
}

// Valid reports whether e is a known easing curve.
func (e Easing) Valid() bool {
	_, ok := validEasings[e]
	return ok
}

// ParseEventType converts a tag into an EventType.
func ParseEventType(tag string) (EventType, error) {
	e := EventType(tag)
	if !e.Valid() {
		return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, tag)
	}
	return e, nil
}

// ValidateEvent checks an event binding.
func ValidateEvent(ev EventConfig) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, ev.Type)
	}
	if ev.Key != nil && *ev.Key != "" {
		if !ev.Type.IsKeyEvent() {
			return fmt.Errorf("%w: key binding on non-key event %q", ErrInvalidEvent, ev.Type)
		}
		if len(*ev.Key) > maxKeyNameBytes {
			return fmt.Errorf("%w: key name exceeds %d bytes", ErrInvalidEvent, maxKeyNameBytes)
		}
	}
	return nil
}

// ValidateAction checks a single action.
func ValidateAction(a ActionConfig) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, a.Type)
	}
	if a.DelayMS < 0 || a.DelayMS > maxDelayMS {
		return fmt.Errorf("%w: delay_ms must be 0-%d", ErrInvalidAction, maxDelayMS)
	}
	if a.DurationMS < 0 || a.DurationMS > maxDurationMS {
		return fmt.Errorf("%w: duration_ms must be 0-%d", ErrInvalidAction, maxDurationMS)
	}
	if a.Easing != "" && !a.Easing.Valid() {
		return fmt.Errorf("%w: unknown easing %q", ErrInvalidAction, a.Easing)
	}
	if a.TargetStateID != nil && a.Type != ActionSetState {
		return fmt.Errorf("%w: target_state_id is only valid for %s", ErrInvalidAction, ActionSetState)
	}
	return nil
}

// ValidateRule checks a rule and all of its actions.
func ValidateRule(r InteractionRule) error {
	if err := validateName(r.Name, ErrInvalidRule); err != nil {
		return err
	}
	if err := ValidateEvent(r.Event); err != nil {
		return err
	}
	if len(r.Actions) > maxActions {
		return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidRule, maxActions)
	}
	for i, a := range r.Actions {
		if err := ValidateAction(a); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

// ValidateRulePatch checks the fields present in a rule patch.
func ValidateRulePatch(p RulePatch) error {
	if p.Name != nil {
		if err := validateName(*p.Name, ErrInvalidRule); err != nil {
			return err
		}
	}
	if p.Event != nil {
		if err := ValidateEvent(*p.Event); err != nil {
			return err
		}
	}
	if p.Actions != nil {
		if len(*p.Actions) > maxActions {
			return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidRule, maxActions)
		}
		for i, a := range *p.Actions {
			if err := ValidateAction(a); err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
		}
	}
	return nil
}

// ValidateState checks a state definition supplied for creation.
func ValidateState(s ObjectState) error {
	if err := validateName(s.Name, ErrInvalidState); err != nil {
		return err
	}
	if err := scene.ValidateObjectPatch(s.Properties); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return nil
}

// ValidateStatePatch checks the fields present in a state patch.
func ValidateStatePatch(p StatePatch) error {
	if p.Name != nil {
		if err := validateName(*p.Name, ErrInvalidState); err != nil {
			return err
		}
	}
	if p.Properties != nil {
		if err := scene.ValidateObjectPatch(*p.Properties); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}
	return nil
}

func validateName(name string, sentinel error) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", sentinel)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", sentinel, maxNameLength)
	}
	return nil
}
