package persistence

import "errors"

// Domain errors for the persistence package.
var (
	// ErrSnapshotNotFound is returned when the mirror has no entry for the key.
	ErrSnapshotNotFound = errors.New("persistence: snapshot not found")

	// ErrCorruptSnapshot is returned when a stored blob cannot be decoded.
	ErrCorruptSnapshot = errors.New("persistence: corrupt snapshot")

	// ErrUnsupportedVersion is returned for blobs written by a newer format.
	ErrUnsupportedVersion = errors.New("persistence: unsupported snapshot version")
)
