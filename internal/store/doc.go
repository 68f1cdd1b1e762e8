// Package store is the single owned state container of the editor.
//
// All editor state lives in one Store. Collaborators (REST handlers, the
// WebSocket hub, the input dispatcher, the MQTT bridge, timers) hold a
// *Store and call its mutation methods; there are no package globals.
//
// # Slices
//
// State is split in two with different lifecycles:
//
//	tracked    objects                      → recorded by history on change
//	untracked  lights, camera bookmarks,      → never time-travelled
//	           interaction records,
//	           selection, clipboard, settings,
//	           play mode, export flag
//
// Undo and redo replace only the tracked slice. Everything else keeps the
// value it had at the moment of undo.
//
// # Failure posture
//
// No mutation returns an error. An id that does not resolve, or an
// operation with nothing to act on (paste with empty clipboard, duplicate
// with empty selection), leaves state unchanged. External input is
// validated at the boundary (see package api) before it reaches the store.
//
// # Concurrency
//
// One mutex serialises every operation, so two mutations never interleave.
// Change listeners run after the mutation commits, outside the lock, in
// registration order. Interaction timers re-enter through the same public
// methods as any other caller.
package store
