package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/scenecraft-core/internal/scene"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

type failingEncoder struct{ err error }

func (f failingEncoder) Encode(io.Writer, []scene.SceneObject) error { return f.err }

type panickingEncoder struct{}

func (panickingEncoder) Encode(io.Writer, []scene.SceneObject) error { panic("bad mesh") }

func newScene(t *testing.T, objects int) *store.Store {
	t.Helper()
	s := store.New(store.Options{})
	for i := 0; i < objects; i++ {
		s.AddObject(scene.ShapeBox)
	}
	return s
}

func TestExportWritesDocument(t *testing.T) {
	s := newScene(t, 2)
	dir := t.TempDir()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := New(s, JSONEncoder{Generator: "test", now: func() time.Time { return fixed }}, dir, "", nil)

	s.SetExporting(true)
	res, err := e.Export(context.Background())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Path != filepath.Join(dir, DefaultFilename) || res.Objects != 2 || res.Bytes == 0 {
		t.Errorf("Export() = %+v", res)
	}
	if s.IsExporting() {
		t.Error("export flag should be cleared")
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Asset.Generator != "test" || !doc.Asset.ExportedAt.Equal(fixed) {
		t.Errorf("asset = %+v", doc.Asset)
	}
	if !scene.ObjectsEqual(doc.Objects, s.Objects()) {
		t.Error("exported objects differ from the scene")
	}
	if e.LastPath() != res.Path {
		t.Errorf("LastPath() = %q", e.LastPath())
	}
}

func TestExportErrorsResetFlag(t *testing.T) {
	encErr := errors.New("no geometry")
	tests := []struct {
		name    string
		objects int
		enc     Encoder
		wantErr error
	}{
		{"empty scene", 0, nil, ErrNoObjects},
		{"encoder error", 1, failingEncoder{err: encErr}, ErrEncodeFailed},
		{"encoder panic", 1, panickingEncoder{}, ErrEncodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t, tt.objects)
			dir := t.TempDir()
			e := New(s, tt.enc, dir, "out.json", nil)

			s.SetExporting(true)
			_, err := e.Export(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Export() error = %v, want %v", err, tt.wantErr)
			}
			if s.IsExporting() {
				t.Error("export flag must be cleared after a failure")
			}

			entries, _ := os.ReadDir(dir) //nolint:errcheck // Empty on error
			if len(entries) != 0 {
				t.Errorf("failed export left %d files behind", len(entries))
			}
		})
	}
}

func TestExporterWatchesFlag(t *testing.T) {
	s := newScene(t, 1)
	e := New(s, nil, t.TempDir(), "", nil)

	done := make(chan Result, 1)
	e.SetOnDone(func(r Result) { done <- r })
	e.Start(context.Background())
	defer e.Stop()

	s.SetExporting(true)
	select {
	case r := <-done:
		if r.Objects != 1 {
			t.Errorf("Result.Objects = %d, want 1", r.Objects)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("export did not run")
	}

	e.Stop()
	if s.IsExporting() {
		t.Error("export flag should be cleared")
	}
}

func TestExporterReportsFailure(t *testing.T) {
	s := newScene(t, 0)
	e := New(s, nil, t.TempDir(), "", nil)

	errs := make(chan error, 1)
	e.SetOnError(func(err error) { errs <- err })
	e.Start(context.Background())
	defer e.Stop()

	s.SetExporting(true)
	select {
	case err := <-errs:
		if !errors.Is(err, ErrNoObjects) {
			t.Errorf("onError got %v, want ErrNoObjects", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onError was not called")
	}
}
