// Package clients tracks live WebSocket connections and provides the
// delivery primitives the session coordinator needs: unicast,
// broadcast-excluding-sender, and broadcast-to-all. Each connection gets a
// buffered send channel drained by its own write pump so one slow browser
// cannot stall the others.
package clients
