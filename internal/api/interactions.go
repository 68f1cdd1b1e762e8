package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

type currentStateRequest struct {
	StateID string `json:"state_id"`
}

type triggerRequest struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// triggerResponse reports how many rules an event fired.
type triggerResponse struct {
	Matched int `json:"matched"`
}

func (s *Server) handleGetInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	oi, ok := s.store.Interaction(id)
	if !ok {
		writeNotFound(w, "no interaction record for object "+id)
		return
	}
	writeJSON(w, http.StatusOK, oi)
}

// ─── States ─────────────────────────────────────────────────────────

func (s *Server) handleAddState(w http.ResponseWriter, r *http.Request) {
	var st interaction.ObjectState
	if err := decodeJSON(r, &st); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := interaction.ValidateState(st); err != nil {
		writeValidationError(w, err)
		return
	}
	// Only the built-in state is a default.
	st.ID = ""
	st.IsDefault = false
	s.writeScene(w, s.store.AddObjectState(chi.URLParam(r, "id"), st))
}

func (s *Server) handleUpdateState(w http.ResponseWriter, r *http.Request) {
	var p interaction.StatePatch
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := interaction.ValidateStatePatch(p); err != nil {
		writeValidationError(w, err)
		return
	}
	s.store.UpdateObjectState(chi.URLParam(r, "id"), chi.URLParam(r, "stateID"), p)
	s.writeScene(w, "")
}

func (s *Server) handleDeleteState(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteObjectState(chi.URLParam(r, "id"), chi.URLParam(r, "stateID"))
	s.writeScene(w, "")
}

func (s *Server) handleSetCurrentState(w http.ResponseWriter, r *http.Request) {
	var req currentStateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.StateID == "" {
		writeBadRequest(w, "state_id is required")
		return
	}
	s.store.SetObjectCurrentState(chi.URLParam(r, "id"), req.StateID)
	s.writeScene(w, "")
}

// ─── Rules ──────────────────────────────────────────────────────────

// handleAddRule creates a rule. The body is decoded over the default
// template, so an empty body adds an enabled click rule with no actions.
func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	rule := interaction.NewRuleTemplate()
	if err := decodeJSON(r, &rule); requireBody(err) {
		writeBadRequest(w, err.Error())
		return
	}
	if rule.Event.ID == "" {
		rule.Event.ID = scene.GenerateID()
	}
	for i := range rule.Actions {
		if rule.Actions[i].ID == "" {
			rule.Actions[i].ID = scene.GenerateID()
		}
	}
	if err := interaction.ValidateRule(rule); err != nil {
		writeValidationError(w, err)
		return
	}
	s.writeScene(w, s.store.AddInteractionRule(chi.URLParam(r, "id"), rule))
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var p interaction.RulePatch
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := interaction.ValidateRulePatch(p); err != nil {
		writeValidationError(w, err)
		return
	}
	if p.Actions != nil {
		for i := range *p.Actions {
			if (*p.Actions)[i].ID == "" {
				(*p.Actions)[i].ID = scene.GenerateID()
			}
		}
	}
	s.store.UpdateInteractionRule(chi.URLParam(r, "id"), chi.URLParam(r, "ruleID"), p)
	s.writeScene(w, "")
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteInteractionRule(chi.URLParam(r, "id"), chi.URLParam(r, "ruleID"))
	s.writeScene(w, "")
}

// handleTriggerEvent fires an event on one object. Events only run in play
// mode.
func (s *Server) handleTriggerEvent(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	ev, err := interaction.ParseEventType(req.Type)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	if !s.store.IsPlayMode() {
		writeError(w, http.StatusConflict, ErrCodeConflict, "events only run in play mode")
		return
	}

	id := chi.URLParam(r, "id")
	var matched int
	if ev.IsKeyEvent() && req.Key != "" {
		matched = s.store.TriggerObjectKeyEvent(id, ev, req.Key)
	} else {
		matched = s.store.TriggerObjectEvent(id, ev)
	}
	writeJSON(w, http.StatusOK, triggerResponse{Matched: matched})
}
