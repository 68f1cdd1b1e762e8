// Package persistence mirrors the durable part of the scene to a local
// key-value store and rehydrates it on startup.
//
// Only the object collection and the interaction records are persisted.
// Lights, camera bookmarks, selection, clipboard and editor settings are
// session state and start fresh on every run.
//
// Architecture:
//
//	┌──────────┐ Notify()  ┌──────────────┐  Save(key, blob)  ┌────────────┐
//	│  store   │──────────►│   Adapter    │──────────────────►│   Mirror   │
//	│ (Source) │◄──────────│ (coalescing  │                   │ (SQLite kv)│
//	└──────────┘ Persisted │   writer)    │◄──────────────────│            │
//	            Snapshot() └──────────────┘  Load(key)        └────────────┘
//
// Notify never blocks: bursts of changes collapse into a single pending
// write, and the writer goroutine reads the latest snapshot when it runs.
// Write failures are reported through the SetOnError callback and never
// reach the mutation that caused them.
package persistence
