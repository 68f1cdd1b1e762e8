package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nerrad567/scenecraft-core/internal/export"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/config"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/logging"
	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

type stubCheck struct{ err error }

func (c stubCheck) HealthCheck(context.Context) error { return c.err }

func testDeps(st *store.Store) Deps {
	return Deps{
		Config: config.APIConfig{
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:  logging.Default(),
		Store:   st,
		Version: "test",
	}
}

// testServer returns a server over a fresh store, served by httptest.
func testServer(t *testing.T, mutate ...func(*Deps)) (*Server, *store.Store, *httptest.Server) {
	t.Helper()
	st := store.New(store.Options{})
	deps := testDeps(st)
	for _, fn := range mutate {
		fn(&deps)
	}
	s, err := New(deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.buildRouter())
	t.Cleanup(ts.Close)
	return s, st, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, want, body)
	}
}

func TestNew_RequiresLoggerAndStore(t *testing.T) {
	if _, err := New(Deps{Store: store.New(store.Options{})}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Default()}); err == nil {
		t.Error("New() without store should fail")
	}
}

func TestHealth(t *testing.T) {
	_, _, ts := testServer(t, func(d *Deps) {
		d.Checks = map[string]HealthChecker{
			"database": stubCheck{},
			"mqtt":     stubCheck{err: errors.New("not connected")},
		}
	})

	resp, body := do(t, ts, http.MethodGet, "/api/v1/health", "")
	expectStatus(t, resp, body, http.StatusOK)

	got := decode[struct {
		Status  string            `json:"status"`
		Version string            `json:"version"`
		Checks  map[string]string `json:"checks"`
	}](t, body)
	if got.Status != "degraded" || got.Version != "test" {
		t.Errorf("health = %+v", got)
	}
	if got.Checks["database"] != "ok" || got.Checks["mqtt"] != "not connected" {
		t.Errorf("checks = %v", got.Checks)
	}
}

func TestMiddleware(t *testing.T) {
	_, _, ts := testServer(t)

	t.Run("request id is generated", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodGet, "/api/v1/scene", "")
		if resp.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header missing")
		}
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/scene", nil) //nolint:errcheck // Static URL
		req.Header.Set("X-Request-ID", "abc-123")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("X-Request-ID = %q", got)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/objects", nil) //nolint:errcheck // Static URL
		req.Header.Set("Origin", "http://localhost:3000")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodGet, "/api/v1/nope", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestObjectLifecycle(t *testing.T) {
	_, st, ts := testServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/objects", `{"type":"sphere"}`)
	expectStatus(t, resp, body, http.StatusOK)
	created := decode[SceneResponse](t, body)
	if created.ID == "" || len(created.Scene.Objects) != 1 {
		t.Fatalf("add = %+v", created)
	}
	if created.Scene.Objects[0].Type != scene.ShapeSphere {
		t.Errorf("Type = %q", created.Scene.Objects[0].Type)
	}

	resp, body = do(t, ts, http.MethodPatch, "/api/v1/objects/"+created.ID, `{"name":"Ball","position":[1,2,3]}`)
	expectStatus(t, resp, body, http.StatusOK)
	o, _ := st.Object(created.ID)
	if o.Name != "Ball" || o.Position[2] != 3 {
		t.Errorf("object after patch = %+v", o)
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/objects/selected/duplicate", "")
	expectStatus(t, resp, body, http.StatusOK)
	if n := len(decode[SceneResponse](t, body).Scene.Objects); n != 2 {
		t.Errorf("objects after duplicate = %d, want 2", n)
	}

	resp, body = do(t, ts, http.MethodDelete, "/api/v1/objects/"+created.ID, "")
	expectStatus(t, resp, body, http.StatusOK)
	if _, ok := st.Object(created.ID); ok {
		t.Error("object should be deleted")
	}

	resp, body = do(t, ts, http.MethodGet, "/api/v1/scene", "")
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[store.State](t, body); len(got.Objects) != 1 || !got.CanUndo {
		t.Errorf("scene = %+v", got)
	}
}

func TestMissingReferencesAreNotErrors(t *testing.T) {
	_, _, ts := testServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/api/v1/objects/missing", `{"name":"x"}`},
		{http.MethodDelete, "/api/v1/objects/missing", ""},
		{http.MethodPost, "/api/v1/selection", `{"id":"missing"}`},
		{http.MethodDelete, "/api/v1/lights/missing", ""},
		{http.MethodDelete, "/api/v1/objects/missing/rules/r1", ""},
	} {
		resp, body := do(t, ts, tc.method, tc.path, tc.body)
		expectStatus(t, resp, body, http.StatusOK)
	}
}

func TestValidationErrors(t *testing.T) {
	_, st, ts := testServer(t)
	id := st.AddObject(scene.ShapeBox)

	tests := []struct {
		name, method, path, body string
	}{
		{"unknown shape", http.MethodPost, "/api/v1/objects", `{"type":"teapot"}`},
		{"malformed json", http.MethodPost, "/api/v1/objects", `{"type":`},
		{"unknown field", http.MethodPatch, "/api/v1/objects/" + id, `{"colour":"#fff"}`},
		{"bad color", http.MethodPatch, "/api/v1/objects/" + id, `{"color":"red"}`},
		{"empty select id", http.MethodPost, "/api/v1/selection", `{}`},
		{"unknown light", http.MethodPost, "/api/v1/lights", `{"type":"laser"}`},
		{"bad transform mode", http.MethodPut, "/api/v1/settings", `{"transform_mode":"shear"}`},
		{"non-positive snap", http.MethodPut, "/api/v1/settings", `{"snap_size":0}`},
		{"blank bookmark", http.MethodPost, "/api/v1/bookmarks", `{"name":"  "}`},
		{"blank state name", http.MethodPost, "/api/v1/objects/" + id + "/states", `{"name":""}`},
		{"unknown event", http.MethodPost, "/api/v1/objects/" + id + "/rules", `{"event":{"type":"hover","enabled":true}}`},
		{"negative delay", http.MethodPost, "/api/v1/objects/" + id + "/rules", `{"actions":[{"type":"setState","delay_ms":-1}]}`},
		{"bad key event", http.MethodPost, "/api/v1/input/key", `{"key":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, tt.method, tt.path, tt.body)
			expectStatus(t, resp, body, http.StatusBadRequest)
		})
	}
	if len(st.Objects()) != 1 {
		t.Error("rejected requests must not change the scene")
	}
}

func TestSelectionClipboardHistory(t *testing.T) {
	_, st, ts := testServer(t)
	st.AddObject(scene.ShapeBox)
	st.AddObject(scene.ShapeCone)

	do(t, ts, http.MethodPost, "/api/v1/selection/all", "")
	if len(st.SelectedIDs()) != 2 {
		t.Fatalf("selected = %v", st.SelectedIDs())
	}
	do(t, ts, http.MethodPost, "/api/v1/clipboard/copy", "")
	resp, body := do(t, ts, http.MethodPost, "/api/v1/clipboard/paste", "")
	expectStatus(t, resp, body, http.StatusOK)
	if len(st.Objects()) != 4 {
		t.Fatalf("objects after paste = %d", len(st.Objects()))
	}

	resp, body = do(t, ts, http.MethodGet, "/api/v1/history", "")
	expectStatus(t, resp, body, http.StatusOK)
	h := decode[HistoryResponse](t, body)
	if h.UndoDepth != 3 || !h.CanUndo || h.CanRedo {
		t.Errorf("history = %+v", h)
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/history/undo", "")
	expectStatus(t, resp, body, http.StatusOK)
	undo := decode[travelResponse](t, body)
	if !undo.Applied || len(undo.Scene.Objects) != 2 {
		t.Errorf("undo = applied %v objects %d", undo.Applied, len(undo.Scene.Objects))
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/history/redo", "")
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[travelResponse](t, body); !got.Applied || len(got.Scene.Objects) != 4 {
		t.Errorf("redo = %+v", got)
	}
	resp, body = do(t, ts, http.MethodPost, "/api/v1/history/redo", "")
	if got := decode[travelResponse](t, body); got.Applied {
		t.Error("redo past the end should not apply")
	}

	do(t, ts, http.MethodDelete, "/api/v1/selection", "")
	if len(st.SelectedIDs()) != 0 {
		t.Error("deselect all should clear the selection")
	}
}

func TestLightsBookmarksSettings(t *testing.T) {
	_, st, ts := testServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/lights", `{"type":"point"}`)
	expectStatus(t, resp, body, http.StatusOK)
	light := decode[SceneResponse](t, body).ID

	resp, body = do(t, ts, http.MethodPatch, "/api/v1/lights/"+light, `{"intensity":2}`)
	expectStatus(t, resp, body, http.StatusOK)
	do(t, ts, http.MethodPost, "/api/v1/lights/selection", `{"id":"`+light+`"}`)
	if st.SelectedLightID() != light {
		t.Errorf("SelectedLightID() = %q", st.SelectedLightID())
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/bookmarks", `{"name":"Front","position":[0,2,5],"target":[0,0,0]}`)
	expectStatus(t, resp, body, http.StatusOK)
	if bms := st.CameraBookmarks(); len(bms) != 1 || bms[0].Name != "Front" {
		t.Errorf("bookmarks = %+v", bms)
	}

	resp, body = do(t, ts, http.MethodPut, "/api/v1/settings", `{"transform_mode":"scale","snap_enabled":true,"snap_size":0.25}`)
	expectStatus(t, resp, body, http.StatusOK)
	got := decode[SceneResponse](t, body).Scene
	if got.TransformMode != store.TransformScale || !got.SnapEnabled || got.SnapSize != 0.25 {
		t.Errorf("settings = %s %v %v", got.TransformMode, got.SnapEnabled, got.SnapSize)
	}
	if got.CanUndo {
		t.Error("lights, bookmarks and settings are not recorded in history")
	}
}

func TestInteractionsAndPlayMode(t *testing.T) {
	_, st, ts := testServer(t)
	id := st.AddObject(scene.ShapeBox)

	resp, body := do(t, ts, http.MethodGet, "/api/v1/objects/"+id+"/interaction", "")
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = do(t, ts, http.MethodPost, "/api/v1/objects/"+id+"/states", `{"name":"Red","properties":{"color":"#ff0000"},"is_default":true}`)
	expectStatus(t, resp, body, http.StatusOK)
	stateID := decode[SceneResponse](t, body).ID

	rule := `{"name":"Go red","event":{"type":"click","enabled":true},"actions":[{"type":"setState","target_state_id":"` + stateID + `"}]}`
	resp, body = do(t, ts, http.MethodPost, "/api/v1/objects/"+id+"/rules", rule)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/objects/"+id+"/interaction", "")
	expectStatus(t, resp, body, http.StatusOK)
	oi := decode[interaction.ObjectInteraction](t, body)
	if len(oi.States) != 2 || len(oi.Rules) != 1 {
		t.Fatalf("record = %+v", oi)
	}
	if oi.States[1].IsDefault {
		t.Error("added states are never default")
	}
	if oi.Rules[0].Actions[0].ID == "" {
		t.Error("actions should be given ids")
	}

	// Events are refused while editing.
	resp, body = do(t, ts, http.MethodPost, "/api/v1/objects/"+id+"/events", `{"type":"click"}`)
	expectStatus(t, resp, body, http.StatusConflict)

	resp, body = do(t, ts, http.MethodPut, "/api/v1/play", `{"play":true}`)
	expectStatus(t, resp, body, http.StatusOK)
	if !decode[playResponse](t, body).Scene.IsPlayMode {
		t.Fatal("play mode should be on")
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/objects/"+id+"/events", `{"type":"click"}`)
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[triggerResponse](t, body); got.Matched != 1 {
		t.Errorf("matched = %d, want 1", got.Matched)
	}
	if oi, _ := st.Interaction(id); oi.CurrentStateID != stateID {
		t.Errorf("current state = %q, want %q", oi.CurrentStateID, stateID)
	}

	do(t, ts, http.MethodPut, "/api/v1/play", `{"play":false}`)
	resp, body = do(t, ts, http.MethodPut, "/api/v1/objects/"+id+"/current-state", `{"state_id":"default"}`)
	expectStatus(t, resp, body, http.StatusOK)
	if oi, _ := st.Interaction(id); oi.CurrentStateID != interaction.DefaultStateID {
		t.Error("current state should be reset")
	}
}

func TestAddRuleEmptyBodyUsesTemplate(t *testing.T) {
	_, st, ts := testServer(t)
	id := st.AddObject(scene.ShapeBox)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/objects/"+id+"/rules", "")
	expectStatus(t, resp, body, http.StatusOK)

	oi, ok := st.Interaction(id)
	if !ok || len(oi.Rules) != 1 {
		t.Fatalf("record = %+v", oi)
	}
	r := oi.Rules[0]
	if r.Name != interaction.DefaultRuleName || !r.Enabled || r.Event.Type != interaction.EventClick {
		t.Errorf("rule = %+v", r)
	}
}

func TestInputEndpoints(t *testing.T) {
	_, st, ts := testServer(t)
	a := st.AddObject(scene.ShapeBox)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/input/key", `{"key":"r"}`)
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[InputResponse](t, body); got.Scene.TransformMode != store.TransformRotate {
		t.Errorf("transform mode = %s", got.Scene.TransformMode)
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/input/pointer", `{"type":"click"}`)
	expectStatus(t, resp, body, http.StatusOK)
	if len(st.SelectedIDs()) != 0 {
		t.Error("a click on empty space should deselect")
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/input/transform", `{"object_id":"`+a+`","position":[4,0,4]}`)
	expectStatus(t, resp, body, http.StatusOK)
	if o, _ := st.Object(a); o.Position[0] != 4 {
		t.Errorf("position = %v", o.Position)
	}

	resp, body = do(t, ts, http.MethodPost, "/api/v1/input/transform", `{"position":[4,0,4]}`)
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestExportEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, _, ts := testServer(t)
		resp, body := do(t, ts, http.MethodPost, "/api/v1/export", "")
		expectStatus(t, resp, body, http.StatusServiceUnavailable)
	})

	t.Run("accepted", func(t *testing.T) {
		var exp *export.Exporter
		_, st, ts := testServer(t, func(d *Deps) {
			exp = export.New(d.Store, nil, t.TempDir(), "", nil)
			d.Exporter = exp
		})
		st.AddObject(scene.ShapeBox)

		resp, body := do(t, ts, http.MethodPost, "/api/v1/export", "")
		expectStatus(t, resp, body, http.StatusAccepted)
		if !decode[SceneResponse](t, body).Scene.IsExporting {
			t.Error("the export flag should be raised")
		}

		resp, body = do(t, ts, http.MethodPost, "/api/v1/export", "")
		expectStatus(t, resp, body, http.StatusConflict)

		if _, err := exp.Export(context.Background()); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if st.IsExporting() {
			t.Error("flag should be cleared after export")
		}
	})
}

func TestErrorEnvelope(t *testing.T) {
	_, _, ts := testServer(t)
	resp, body := do(t, ts, http.MethodPost, "/api/v1/objects", `{"type":"teapot"}`)
	expectStatus(t, resp, body, http.StatusBadRequest)

	var got Error
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&got); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if got.Status != http.StatusBadRequest || got.Code != ErrCodeValidation || got.Message == "" {
		t.Errorf("error = %+v", got)
	}
}
