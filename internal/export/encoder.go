package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// Encoder turns the object collection into a portable scene description.
type Encoder interface {
	Encode(w io.Writer, objects []scene.SceneObject) error
}

// JSONEncoder writes an indented JSON scene description.
type JSONEncoder struct {
	// Generator is recorded in the document header.
	Generator string

	now func() time.Time
}

// Document is the JSON export format.
type Document struct {
	Asset   Asset               `json:"asset"`
	Objects []scene.SceneObject `json:"objects"`
}

// Asset describes who produced the export and when.
type Asset struct {
	Generator  string    `json:"generator"`
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
}

// documentVersion is the version string written in Asset.Version.
const documentVersion = "1.0"

// Encode implements Encoder.
func (e JSONEncoder) Encode(w io.Writer, objects []scene.SceneObject) error {
	now := e.now
	if now == nil {
		now = time.Now
	}
	gen := e.Generator
	if gen == "" {
		gen = "scenecraft"
	}
	doc := Document{
		Asset:   Asset{Generator: gen, Version: documentVersion, ExportedAt: now().UTC()},
		Objects: objects,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing scene document: %w", err)
	}
	return nil
}
