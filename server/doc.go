// Package server wires the whiteboard backend together: the HTTP router,
// the WebSocket endpoint, the session coordinator, and process lifecycle.
package server
