package store

import (
	"slices"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
)

// Interaction returns a copy of the record for objectID.
func (s *Store) Interaction(objectID string) (interaction.ObjectInteraction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	oi, ok := s.interactions[objectID]
	if !ok {
		return interaction.ObjectInteraction{}, false
	}
	return oi.Clone(), true
}

// Interactions returns copies of all records in creation order.
func (s *Store) Interactions() []interaction.ObjectInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactionsLocked()
}

func (s *Store) interactionsLocked() []interaction.ObjectInteraction {
	out := make([]interaction.ObjectInteraction, 0, len(s.interactionOrder))
	for _, id := range s.interactionOrder {
		out = append(out, s.interactions[id].Clone())
	}
	return out
}

func (s *Store) putInteraction(oi interaction.ObjectInteraction) {
	if _, ok := s.interactions[oi.ObjectID]; !ok {
		s.interactionOrder = append(slices.Clip(s.interactionOrder), oi.ObjectID)
	}
	s.interactions[oi.ObjectID] = oi
}

func (s *Store) removeInteraction(objectID string) bool {
	if _, ok := s.interactions[objectID]; !ok {
		return false
	}
	delete(s.interactions, objectID)
	s.interactionOrder = slices.DeleteFunc(slices.Clone(s.interactionOrder), func(id string) bool {
		return id == objectID
	})
	return true
}

// recordForWriteLocked returns the existing record, or a synthesised one
// holding only the default state. It fails when the object does not exist,
// so records never outlive or precede their object.
func (s *Store) recordForWriteLocked(objectID string) (interaction.ObjectInteraction, bool) {
	if oi, ok := s.interactions[objectID]; ok {
		return oi, true
	}
	if s.objectIndex(objectID) < 0 {
		return interaction.ObjectInteraction{}, false
	}
	return interaction.NewObjectInteraction(objectID), true
}

// ─── States ─────────────────────────────────────────────────────────

// AddObjectState adds a state to the object's record, creating the record
// if needed. It returns the new state id, or "" when the object is unknown.
func (s *Store) AddObjectState(objectID string, st interaction.ObjectState) string {
	var id string
	s.mutate("add_object_state", func() Slice {
		oi, ok := s.recordForWriteLocked(objectID)
		if !ok {
			return 0
		}
		oi, id = oi.AddState(st)
		s.putInteraction(oi)
		return SliceInteractions
	})
	return id
}

// UpdateObjectState merges p into a state. The object itself is not
// re-applied, even when the state is current.
func (s *Store) UpdateObjectState(objectID, stateID string, p interaction.StatePatch) {
	s.mutate("update_object_state", func() Slice {
		oi, ok := s.interactions[objectID]
		if !ok {
			return 0
		}
		next, ok := oi.UpdateState(stateID, p)
		if !ok {
			return 0
		}
		s.putInteraction(next)
		return SliceInteractions
	})
}

// DeleteObjectState removes a non-default state. Deleting the default state
// is a no-op. If the deleted state was current, "default" becomes current.
func (s *Store) DeleteObjectState(objectID, stateID string) {
	s.mutate("delete_object_state", func() Slice {
		oi, ok := s.interactions[objectID]
		if !ok {
			return 0
		}
		next, ok := oi.DeleteState(stateID)
		if !ok {
			return 0
		}
		s.putInteraction(next)
		return SliceInteractions
	})
}

// SetObjectCurrentState merges the state's overrides into the object and
// records it as current. It is a no-op when the record, the state or the
// object is missing.
func (s *Store) SetObjectCurrentState(objectID, stateID string) {
	s.mutate("set_object_current_state", func() Slice {
		oi, ok := s.interactions[objectID]
		if !ok {
			return 0
		}
		st, ok := oi.State(stateID)
		if !ok {
			return 0
		}
		i := s.objectIndex(objectID)
		if i < 0 {
			return 0
		}
		next := slices.Clone(s.objects)
		next[i] = next[i].Apply(st.Properties)
		s.objects = next

		changed := Slice(0)
		if oi.CurrentStateID != stateID {
			oi, _ = oi.WithCurrentState(stateID)
			s.putInteraction(oi)
			changed = SliceInteractions
		}
		return changed
	})
}

// ─── Rules ──────────────────────────────────────────────────────────

// AddInteractionRule appends a rule to the object's record, creating the
// record if needed. It returns the new rule id, or "" when the object is
// unknown.
func (s *Store) AddInteractionRule(objectID string, r interaction.InteractionRule) string {
	var id string
	s.mutate("add_interaction_rule", func() Slice {
		oi, ok := s.recordForWriteLocked(objectID)
		if !ok {
			return 0
		}
		var rule interaction.InteractionRule
		oi, rule = oi.AddRule(r)
		id = rule.ID
		s.putInteraction(oi)
		return SliceInteractions
	})
	return id
}

// UpdateInteractionRule merges p into a rule.
func (s *Store) UpdateInteractionRule(objectID, ruleID string, p interaction.RulePatch) {
	s.mutate("update_interaction_rule", func() Slice {
		oi, ok := s.interactions[objectID]
		if !ok {
			return 0
		}
		next, ok := oi.UpdateRule(ruleID, p)
		if !ok {
			return 0
		}
		s.putInteraction(next)
		return SliceInteractions
	})
}

// DeleteInteractionRule removes a rule and cancels its pending actions.
func (s *Store) DeleteInteractionRule(objectID, ruleID string) {
	s.mutate("delete_interaction_rule", func() Slice {
		oi, ok := s.interactions[objectID]
		if !ok {
			return 0
		}
		next, ok := oi.DeleteRule(ruleID)
		if !ok {
			return 0
		}
		s.putInteraction(next)
		s.engine.CancelRule(objectID, ruleID)
		return SliceInteractions
	})
}

// ─── Events ─────────────────────────────────────────────────────────

// TriggerObjectEvent evaluates an event against the object's rules. It
// returns the number of rules that matched.
//
// The store lock is not held while the engine runs; its actions re-enter
// through SetObjectCurrentState.
func (s *Store) TriggerObjectEvent(objectID string, ev interaction.EventType) int {
	return s.engine.Trigger(objectID, ev)
}

// TriggerObjectKeyEvent is TriggerObjectEvent for key events, matching the
// rule's key binding against key.
func (s *Store) TriggerObjectKeyEvent(objectID string, ev interaction.EventType, key string) int {
	return s.engine.TriggerKey(objectID, ev, key)
}
