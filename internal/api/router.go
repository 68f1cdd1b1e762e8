package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthTimeout bounds each dependency check in GET /health.
const healthTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/scene", s.handleGetScene)

		r.Route("/objects", func(r chi.Router) {
			r.Post("/", s.handleAddObject)

			r.Route("/selected", func(r chi.Router) {
				r.Patch("/", s.handleUpdateSelected)
				r.Delete("/", s.handleDeleteSelected)
				r.Post("/duplicate", s.handleDuplicateSelected)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.handleUpdateObject)
				r.Delete("/", s.handleDeleteObject)

				r.Get("/interaction", s.handleGetInteraction)
				r.Post("/states", s.handleAddState)
				r.Patch("/states/{stateID}", s.handleUpdateState)
				r.Delete("/states/{stateID}", s.handleDeleteState)
				r.Put("/current-state", s.handleSetCurrentState)
				r.Post("/rules", s.handleAddRule)
				r.Patch("/rules/{ruleID}", s.handleUpdateRule)
				r.Delete("/rules/{ruleID}", s.handleDeleteRule)
				r.Post("/events", s.handleTriggerEvent)
			})
		})

		r.Route("/selection", func(r chi.Router) {
			r.Post("/", s.handleSelect)
			r.Post("/all", s.handleSelectAll)
			r.Delete("/", s.handleDeselectAll)
		})

		r.Post("/clipboard/copy", s.handleCopy)
		r.Post("/clipboard/paste", s.handlePaste)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleGetHistory)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
		})

		r.Route("/lights", func(r chi.Router) {
			r.Post("/", s.handleAddLight)
			r.Post("/selection", s.handleSelectLight)
			r.Patch("/{id}", s.handleUpdateLight)
			r.Delete("/{id}", s.handleDeleteLight)
		})

		r.Post("/bookmarks", s.handleAddBookmark)
		r.Delete("/bookmarks/{id}", s.handleDeleteBookmark)

		r.Put("/settings", s.handleUpdateSettings)
		r.Put("/play", s.handleSetPlayMode)
		r.Post("/export", s.handleExport)

		r.Route("/input", func(r chi.Router) {
			r.Post("/key", s.handleInputKey)
			r.Post("/pointer", s.handleInputPointer)
			r.Post("/transform", s.handleInputTransform)
		})

		r.Get(s.wsPath(), s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server version and the state of each optional
// dependency. A failing dependency degrades the status but still answers 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := make(map[string]string, len(s.checks))
	for name, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := c.HealthCheck(ctx)
		cancel()
		if err != nil {
			checks[name] = err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            status,
		"version":           s.version,
		"checks":            checks,
		"websocket_clients": s.hub.ClientCount(),
	})
}

// wsPath returns the configured WebSocket path under /api/v1.
func (s *Server) wsPath() string {
	p := s.wsCfg.Path
	if p == "" {
		return "/ws"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
