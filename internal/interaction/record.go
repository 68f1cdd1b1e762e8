package interaction

import (
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// DefaultState returns the mandatory default state.
func DefaultState() ObjectState {
	return ObjectState{
		ID:        DefaultStateID,
		Name:      "Default",
		IsDefault: true,
	}
}

// NewObjectInteraction creates an empty record for objectID holding only the
// default state, which is also the current state.
func NewObjectInteraction(objectID string) ObjectInteraction {
	return ObjectInteraction{
		ObjectID:       objectID,
		States:         []ObjectState{DefaultState()},
		CurrentStateID: DefaultStateID,
		Rules:          []InteractionRule{},
	}
}

// NewRuleTemplate returns the rule a UI creates when the user adds a rule:
// enabled, reacting to click, with no actions.
func NewRuleTemplate() InteractionRule {
	return InteractionRule{
		Name:    DefaultRuleName,
		Enabled: true,
		Event: EventConfig{
			ID:      scene.GenerateID(),
			Type:    EventClick,
			Enabled: true,
		},
		Actions: []ActionConfig{},
	}
}

// NewActionTemplate returns an immediate action of the given type with the
// default duration and easing.
func NewActionTemplate(t ActionType) ActionConfig {
	return ActionConfig{
		ID:         scene.GenerateID(),
		Type:       t,
		DelayMS:    0,
		DurationMS: DefaultActionDuration,
		Easing:     DefaultActionEasing,
	}
}

// ─── Lookups ────────────────────────────────────────────────────────

// State returns the state with the given id.
func (oi ObjectInteraction) State(stateID string) (ObjectState, bool) {
	if i := oi.stateIndex(stateID); i >= 0 {
		return oi.States[i], true
	}
	return ObjectState{}, false
}

// CurrentState returns the currently applied state.
func (oi ObjectInteraction) CurrentState() (ObjectState, bool) {
	return oi.State(oi.CurrentStateID)
}

// Rule returns the rule with the given id.
func (oi ObjectInteraction) Rule(ruleID string) (InteractionRule, bool) {
	if i := oi.ruleIndex(ruleID); i >= 0 {
		return oi.Rules[i], true
	}
	return InteractionRule{}, false
}

// NextStateID returns the state after the current one, cycling back to the
// first. It returns false when the record has one state or fewer.
func (oi ObjectInteraction) NextStateID() (string, bool) {
	if len(oi.States) <= 1 {
		return "", false
	}
	// An unresolvable current id yields index -1, so the cycle restarts at 0.
	next := (oi.stateIndex(oi.CurrentStateID) + 1) % len(oi.States)
	return oi.States[next].ID, true
}

// MatchingRules returns the enabled rules whose enabled event has type ev,
// in stored order. Key bindings are not checked.
func (oi ObjectInteraction) MatchingRules(ev EventType) []InteractionRule {
	var out []InteractionRule
	for _, r := range oi.Rules {
		if r.Enabled && r.Event.Enabled && r.Event.Type == ev {
			out = append(out, r)
		}
	}
	return out
}

// MatchingKeyRules is MatchingRules refined by a case-sensitive match of the
// rule's key binding against key. Rules without a binding match any key.
// For non-key events it is identical to MatchingRules.
func (oi ObjectInteraction) MatchingKeyRules(ev EventType, key string) []InteractionRule {
	rules := oi.MatchingRules(ev)
	if !ev.IsKeyEvent() {
		return rules
	}
	var out []InteractionRule
	for _, r := range rules {
		if r.Event.Key == nil || *r.Event.Key == "" || *r.Event.Key == key {
			out = append(out, r)
		}
	}
	return out
}

// ─── State operations ───────────────────────────────────────────────

// AddState appends s under a fresh id and returns the new record and the id.
// A second default state cannot be created: IsDefault is always cleared.
func (oi ObjectInteraction) AddState(s ObjectState) (ObjectInteraction, string) {
	out := oi.Clone()
	st := s.Clone()
	st.ID = scene.GenerateID()
	st.IsDefault = false
	out.States = append(out.States, st)
	return out, st.ID
}

// UpdateState merges p into the state with the given id. The second result
// is false when the state does not exist.
func (oi ObjectInteraction) UpdateState(stateID string, p StatePatch) (ObjectInteraction, bool) {
	i := oi.stateIndex(stateID)
	if i < 0 {
		return oi, false
	}
	out := oi.Clone()
	if p.Name != nil {
		out.States[i].Name = *p.Name
	}
	if p.Properties != nil {
		out.States[i].Properties = p.Properties.Clone()
	}
	return out, true
}

// DeleteState removes a non-default state. If it was current, the current
// state falls back to "default". Deleting the default state, or a missing
// state, returns the record unchanged and false.
func (oi ObjectInteraction) DeleteState(stateID string) (ObjectInteraction, bool) {
	i := oi.stateIndex(stateID)
	if i < 0 || oi.States[i].IsDefault {
		return oi, false
	}
	out := oi.Clone()
	out.States = append(out.States[:i], out.States[i+1:]...)
	if out.CurrentStateID == stateID {
		out.CurrentStateID = DefaultStateID
	}
	return out, true
}

// WithCurrentState returns the record with CurrentStateID set, or false when
// the state does not exist.
func (oi ObjectInteraction) WithCurrentState(stateID string) (ObjectInteraction, bool) {
	if oi.stateIndex(stateID) < 0 {
		return oi, false
	}
	out := oi.Clone()
	out.CurrentStateID = stateID
	return out, true
}

// ─── Rule operations ────────────────────────────────────────────────

// AddRule appends r under a fresh id and returns the new record and the
// stored rule. Actions without an id are given one.
func (oi ObjectInteraction) AddRule(r InteractionRule) (ObjectInteraction, InteractionRule) {
	out := oi.Clone()
	rule := r.Clone()
	rule.ID = scene.GenerateID()
	if rule.Event.ID == "" {
		rule.Event.ID = scene.GenerateID()
	}
	if rule.Actions == nil {
		rule.Actions = []ActionConfig{}
	}
	assignActionIDs(rule.Actions)
	out.Rules = append(out.Rules, rule)
	return out, rule
}

// UpdateRule merges p into the rule with the given id. Actions, when present,
// replace the rule's action list.
func (oi ObjectInteraction) UpdateRule(ruleID string, p RulePatch) (ObjectInteraction, bool) {
	i := oi.ruleIndex(ruleID)
	if i < 0 {
		return oi, false
	}
	out := oi.Clone()
	r := &out.Rules[i]
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	if p.Event != nil {
		ev := *p.Event
		ev.Key = cloneString(p.Event.Key)
		if ev.ID == "" {
			ev.ID = r.Event.ID
		}
		r.Event = ev
	}
	if p.Actions != nil {
		actions := make([]ActionConfig, len(*p.Actions))
		for j, a := range *p.Actions {
			actions[j] = a.Clone()
		}
		assignActionIDs(actions)
		r.Actions = actions
	}
	return out, true
}

// DeleteRule removes the rule with the given id.
func (oi ObjectInteraction) DeleteRule(ruleID string) (ObjectInteraction, bool) {
	i := oi.ruleIndex(ruleID)
	if i < 0 {
		return oi, false
	}
	out := oi.Clone()
	out.Rules = append(out.Rules[:i], out.Rules[i+1:]...)
	return out, true
}

func (oi ObjectInteraction) stateIndex(id string) int {
	for i, s := range oi.States {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (oi ObjectInteraction) ruleIndex(id string) int {
	for i, r := range oi.Rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func assignActionIDs(actions []ActionConfig) {
	for i := range actions {
		if actions[i].ID == "" {
			actions[i].ID = scene.GenerateID()
		}
	}
}

// Normalized repairs a record loaded from outside the process: exactly one
// state is flagged default and it has id "default", and CurrentStateID
// resolves.
func (oi ObjectInteraction) Normalized() ObjectInteraction {
	out := oi.Clone()
	states := make([]ObjectState, 0, len(out.States)+1)
	states = append(states, DefaultState())
	for _, s := range out.States {
		switch {
		case s.ID == DefaultStateID:
			// Keep a renamed or overridden default, but never more than one.
			states[0].Name = s.Name
			states[0].Properties = s.Properties
		case s.ID == "":
			continue
		default:
			s.IsDefault = false
			states = append(states, s)
		}
	}
	out.States = states
	if out.stateIndex(out.CurrentStateID) < 0 {
		out.CurrentStateID = DefaultStateID
	}
	if out.Rules == nil {
		out.Rules = []InteractionRule{}
	}
	return out
}
