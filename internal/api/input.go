package api

import (
	"net/http"

	"github.com/nerrad567/scenecraft-core/internal/input"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// InputResponse carries the outcome of a viewport event and the scene after
// it.
type InputResponse struct {
	Outcome input.Outcome `json:"outcome"`
	Scene   store.State   `json:"scene"`
}

type transformRequest struct {
	ObjectID string `json:"object_id"`
	input.Transform
}

func (s *Server) handleInputKey(w http.ResponseWriter, r *http.Request) {
	var ev input.KeyEvent
	if err := decodeJSON(r, &ev); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	out, err := s.input.HandleKey(ev)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InputResponse{Outcome: out, Scene: s.store.Snapshot()})
}

func (s *Server) handleInputPointer(w http.ResponseWriter, r *http.Request) {
	var ev input.PointerEvent
	if err := decodeJSON(r, &ev); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	out, err := s.input.HandlePointer(ev)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InputResponse{Outcome: out, Scene: s.store.Snapshot()})
}

// handleInputTransform commits a finished gizmo drag as one undo step.
func (s *Server) handleInputTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.ObjectID == "" {
		writeBadRequest(w, "object_id is required")
		return
	}
	s.input.CommitTransform(req.ObjectID, req.Transform)
	s.writeScene(w, "")
}
