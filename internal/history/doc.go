// Package history provides a depth-bounded undo/redo log.
//
// History is generic over the tracked snapshot type. The caller decides what
// is tracked: the scene store records only its object collection, so lights,
// bookmarks, interaction records and selection are never time-travelled.
//
//	Record(prev)     undo: [... prev]        redo: []
//	Undo(current)    undo: [...]             redo: [... current]  → returns prev
//	Redo(current)    undo: [... current]     redo: [...]          → returns next
//
// When the undo stack exceeds its limit the oldest entry is evicted. A new
// Record always clears the redo stack; there is no undo branching.
//
// Snapshots are stored as given. Callers must not mutate a value after
// handing it to History; the store guarantees this by treating its object
// slices as copy-on-write.
package history
