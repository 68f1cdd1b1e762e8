package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// SceneResponse is returned by every mutation: the id of a created entity,
// if any, and the scene after the mutation.
type SceneResponse struct {
	ID    string      `json:"id,omitempty"`
	Scene store.State `json:"scene"`
}

type addObjectRequest struct {
	Type string `json:"type"`
}

type selectRequest struct {
	ID    string `json:"id"`
	Multi bool   `json:"multi,omitempty"`
}

// writeScene answers 200 with the current scene.
func (s *Server) writeScene(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusOK, SceneResponse{ID: id, Scene: s.store.Snapshot()})
}

// decodePatch reads an ObjectPatch body and validates it.
func decodePatch(w http.ResponseWriter, r *http.Request) (scene.ObjectPatch, bool) {
	var p scene.ObjectPatch
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, err.Error())
		return p, false
	}
	if err := scene.ValidateObjectPatch(p); err != nil {
		writeValidationError(w, err)
		return p, false
	}
	return p, true
}

func (s *Server) handleGetScene(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// ─── Objects ────────────────────────────────────────────────────────

func (s *Server) handleAddObject(w http.ResponseWriter, r *http.Request) {
	var req addObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	t, err := scene.ParseShapeType(req.Type)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	s.writeScene(w, s.store.AddObject(t))
}

func (s *Server) handleUpdateObject(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r)
	if !ok {
		return
	}
	s.store.UpdateObject(chi.URLParam(r, "id"), p)
	s.writeScene(w, "")
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteObject(chi.URLParam(r, "id"))
	s.writeScene(w, "")
}

func (s *Server) handleUpdateSelected(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r)
	if !ok {
		return
	}
	s.store.UpdateSelectedObjects(p)
	s.writeScene(w, "")
}

func (s *Server) handleDeleteSelected(w http.ResponseWriter, _ *http.Request) {
	s.store.DeleteSelectedObjects()
	s.writeScene(w, "")
}

func (s *Server) handleDuplicateSelected(w http.ResponseWriter, _ *http.Request) {
	s.store.DuplicateSelectedObjects()
	s.writeScene(w, "")
}

// ─── Selection and clipboard ────────────────────────────────────────

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.ID == "" {
		writeBadRequest(w, "id is required")
		return
	}
	s.store.SelectObject(req.ID, req.Multi)
	s.writeScene(w, "")
}

func (s *Server) handleSelectAll(w http.ResponseWriter, _ *http.Request) {
	s.store.SelectAll()
	s.writeScene(w, "")
}

func (s *Server) handleDeselectAll(w http.ResponseWriter, _ *http.Request) {
	s.store.DeselectAll()
	s.writeScene(w, "")
}

func (s *Server) handleCopy(w http.ResponseWriter, _ *http.Request) {
	s.store.CopySelectedObjects()
	s.writeScene(w, "")
}

func (s *Server) handlePaste(w http.ResponseWriter, _ *http.Request) {
	s.store.PasteObjects()
	s.writeScene(w, "")
}

// ─── History ────────────────────────────────────────────────────────

// HistoryResponse describes the undo log.
type HistoryResponse struct {
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	Limit     int  `json:"limit"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
}

// travelResponse reports whether an undo or redo step was applied.
type travelResponse struct {
	Applied bool        `json:"applied"`
	Scene   store.State `json:"scene"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, _ *http.Request) {
	undo, redo, limit := s.store.HistoryDepth()
	writeJSON(w, http.StatusOK, HistoryResponse{
		UndoDepth: undo,
		RedoDepth: redo,
		Limit:     limit,
		CanUndo:   undo > 0,
		CanRedo:   redo > 0,
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	applied := s.store.Undo()
	writeJSON(w, http.StatusOK, travelResponse{Applied: applied, Scene: s.store.Snapshot()})
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	applied := s.store.Redo()
	writeJSON(w, http.StatusOK, travelResponse{Applied: applied, Scene: s.store.Snapshot()})
}

// requireBody is used by handlers whose body is optional.
func requireBody(err error) bool {
	return err != nil && !errors.Is(err, errEmptyBody)
}
