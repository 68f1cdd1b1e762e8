package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

type addLightRequest struct {
	Type string `json:"type"`
}

type selectLightRequest struct {
	ID string `json:"id"`
}

type addBookmarkRequest struct {
	Name     string     `json:"name"`
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
}

// settingsRequest carries the editor settings to change. Absent fields are
// left alone.
type settingsRequest struct {
	TransformMode *store.TransformMode `json:"transform_mode,omitempty"`
	SnapEnabled   *bool                `json:"snap_enabled,omitempty"`
	SnapSize      *float64             `json:"snap_size,omitempty"`
}

type playRequest struct {
	Play bool `json:"play"`
}

// playResponse reports how many start rules fired on entering play mode.
type playResponse struct {
	StartRules int         `json:"start_rules"`
	Scene      store.State `json:"scene"`
}

// ─── Lights ─────────────────────────────────────────────────────────

func (s *Server) handleAddLight(w http.ResponseWriter, r *http.Request) {
	var req addLightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	t, err := scene.ParseLightType(req.Type)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	s.writeScene(w, s.store.AddLight(t))
}

// handleSelectLight selects a light; an empty id clears the light selection.
func (s *Server) handleSelectLight(w http.ResponseWriter, r *http.Request) {
	var req selectLightRequest
	if err := decodeJSON(r, &req); requireBody(err) {
		writeBadRequest(w, err.Error())
		return
	}
	s.store.SelectLight(req.ID)
	s.writeScene(w, "")
}

func (s *Server) handleUpdateLight(w http.ResponseWriter, r *http.Request) {
	var p scene.LightPatch
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := scene.ValidateLightPatch(p); err != nil {
		writeValidationError(w, err)
		return
	}
	s.store.UpdateLight(chi.URLParam(r, "id"), p)
	s.writeScene(w, "")
}

func (s *Server) handleDeleteLight(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteLight(chi.URLParam(r, "id"))
	s.writeScene(w, "")
}

// ─── Camera bookmarks ───────────────────────────────────────────────

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req addBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := scene.ValidateName(req.Name); err != nil {
		writeValidationError(w, err)
		return
	}
	s.writeScene(w, s.store.AddCameraBookmark(req.Name, req.Position, req.Target))
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteCameraBookmark(chi.URLParam(r, "id"))
	s.writeScene(w, "")
}

// ─── Settings, play mode, export ────────────────────────────────────

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.TransformMode != nil && !req.TransformMode.Valid() {
		writeBadRequest(w, "transform_mode must be translate, rotate or scale")
		return
	}
	if req.SnapSize != nil && !(*req.SnapSize > 0) {
		writeBadRequest(w, "snap_size must be positive")
		return
	}

	if req.TransformMode != nil {
		s.store.SetTransformMode(*req.TransformMode)
	}
	if req.SnapEnabled != nil {
		s.store.SetSnapEnabled(*req.SnapEnabled)
	}
	if req.SnapSize != nil {
		s.store.SetSnapSize(*req.SnapSize)
	}
	s.writeScene(w, "")
}

func (s *Server) handleSetPlayMode(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var started int
	if req.Play {
		started = s.input.EnterPlayMode()
	} else {
		s.input.ExitPlayMode()
	}
	writeJSON(w, http.StatusOK, playResponse{StartRules: started, Scene: s.store.Snapshot()})
}

// handleExport raises the export flag. The exporter runs asynchronously and
// reports completion on the WebSocket hub.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "export is not configured")
		return
	}
	if s.store.IsExporting() {
		writeError(w, http.StatusConflict, ErrCodeConflict, "an export is already running")
		return
	}
	s.store.SetExporting(true)
	writeJSON(w, http.StatusAccepted, SceneResponse{Scene: s.store.Snapshot()})
}
