package errors

import "errors"

// Session errors
var (
	// ErrUserNotFound is returned when a connection id has no registry entry
	ErrUserNotFound = errors.New("user not found")

	// ErrNoHistoryEntry is returned when a user has no command left to undo
	ErrNoHistoryEntry = errors.New("no history entry for user")
)

// Connection management errors
var (
	// ErrClientNotFound is returned when a client connection is not registered
	ErrClientNotFound = errors.New("client not found")

	// ErrClientClosed is returned when sending to an already closed client
	ErrClientClosed = errors.New("client closed")

	// ErrSendBufferFull is returned when a client's outbound buffer is full
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrHubStopped is returned when the hub is no longer running
	ErrHubStopped = errors.New("hub is stopped")
)

// Message and protocol errors
var (
	// ErrInvalidMessage is returned when a message cannot be decoded
	ErrInvalidMessage = errors.New("invalid message")

	// ErrUnknownEventType is returned when no handler exists for an event
	ErrUnknownEventType = errors.New("unknown event type")
)

// Storage errors
var (
	// ErrStoreClosed is returned when the archive store has been closed
	ErrStoreClosed = errors.New("archive store closed")

	// ErrDatabaseConnection is returned when database connection fails
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Configuration errors
var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)
