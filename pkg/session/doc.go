// Package session implements the shared whiteboard session: the per-connection
// user registry, the ordered drawing-history log, and the coordinator that
// applies inbound events and decides what gets broadcast to whom. All current
// connections share one session; the log is the single source of truth for
// canvas reconstruction.
package session
