// Package api provides the HTTP REST API and WebSocket server for
// Scenecraft Core.
//
// It is the boundary to the rendering and UI collaborator: read models of
// the scene go out, mutation intents and viewport events come in.
//
//	UI ──REST /api/v1──► handlers ──► store / input.Dispatcher
//	UI ◄──WS /api/v1/ws─ Hub ◄─────── store changes, executed actions, errors
//
// Mutations that reference a missing entity are not errors: they answer
// 200 with the unchanged scene. Malformed bodies and unknown enum values
// answer 400.
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
