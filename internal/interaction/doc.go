// Package interaction implements per-object states and event rules.
//
// Every object that has been given custom states or rules owns one
// ObjectInteraction record, keyed by object id. A record holds a list of
// named states (partial property overrides), the id of the currently applied
// state, and an ordered list of rules mapping one event to ordered actions.
//
// # Architecture
//
//	viewport / MQTT / WebSocket
//	        │ Trigger(objectID, event)
//	        ▼
//	┌──────────────────┐  Interaction(id)          ┌─────────┐
//	│      Engine      │ ────────────────────────► │  Store  │
//	│  rule matching   │  SetObjectCurrentState    │         │
//	│  target resolve  │ ◄──────────────────────── │         │
//	└────────┬─────────┘                           └─────────┘
//	         │ delay > 0
//	         ▼
//	   Clock.AfterFunc ── pending tokens (cancel on delete / leave play)
//
// The Engine never holds the Store's lock: it reads records and applies
// state changes through the Store's public methods, so a timer callback
// re-enters the Store exactly like a direct call.
//
// # Record Invariants
//
//   - Every record contains the state "default" with IsDefault set. It is
//     synthesised when the record is created and cannot be deleted.
//   - CurrentStateID always names a state in the record. Deleting the active
//     state falls back to "default".
//   - Records are values. All methods return a modified copy.
//
// # Delayed Actions
//
// An action with DelayMS > 0 is scheduled on the Clock and runs once. Each
// scheduled action gets a cancellation token. The Store cancels tokens whose
// source or target object is deleted, whose rule is deleted, and all tokens
// when play mode ends. A callback that still fires for a missing id is a
// no-op, because every Store lookup miss is a no-op.
package interaction
