package persistence_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nerrad567/scenecraft-core/internal/infrastructure/database"
	"github.com/nerrad567/scenecraft-core/internal/persistence"
	_ "github.com/nerrad567/scenecraft-core/migrations"
)

func openMirror(t *testing.T) *persistence.SQLiteMirror {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:    filepath.Join(t.TempDir(), "scene.db"),
		WALMode: true,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return persistence.NewSQLiteMirror(db)
}

func TestSQLiteMirror(t *testing.T) {
	m := openMirror(t)
	ctx := context.Background()

	if _, err := m.Load(ctx, "missing"); !errors.Is(err, persistence.ErrSnapshotNotFound) {
		t.Fatalf("Load(missing) error = %v, want ErrSnapshotNotFound", err)
	}

	if err := m.Save(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := m.Save(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	got, err := m.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load() = %q, want %q", got, "second")
	}
}
