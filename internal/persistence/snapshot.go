package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/scene"
)

// SnapshotVersion is the format version written by Encode.
const SnapshotVersion = 1

// DefaultStorageKey is the mirror key the editor state is stored under.
const DefaultStorageKey = "3d-design-tool-storage"

// Snapshot is the persisted projection of the scene.
type Snapshot struct {
	Version            int                             `json:"version"`
	Objects            []scene.SceneObject             `json:"objects"`
	ObjectInteractions []interaction.ObjectInteraction `json:"object_interactions"`
}

// Encode serialises s as JSON, stamping the current format version.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = SnapshotVersion
	if s.Objects == nil {
		s.Objects = []scene.SceneObject{}
	}
	if s.ObjectInteractions == nil {
		s.ObjectInteractions = []interaction.ObjectInteraction{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a blob produced by Encode. Blobs without a version are read
// as version 0 and accepted; newer versions are rejected.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return Snapshot{}, fmt.Errorf("%w: empty blob", ErrCorruptSnapshot)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Objects == nil {
		s.Objects = []scene.SceneObject{}
	}
	if s.ObjectInteractions == nil {
		s.ObjectInteractions = []interaction.ObjectInteraction{}
	}
	return s, nil
}
