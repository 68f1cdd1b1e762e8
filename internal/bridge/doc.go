// Package bridge connects the scene store to the MQTT bus.
//
//	                 scenecraft/event/{object_id}/{event_type}
//	 script ───────────────────────────────────────────────► Bridge ──► store trigger
//	                                                          │        (play mode only)
//	 store change ──► Bridge ──► outbox ──► scenecraft/scene/changed     (QoS 0)
//	 executed action ─┘                 └─► scenecraft/action/{object_id} (QoS 0)
//
// Inbound bodies are optional; a key event may carry {"key": "Enter"} to
// refine the match. Outbound messages are queued and published from one
// goroutine; when the queue is full the message is dropped and logged.
package bridge
