package storage

import (
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// Store defines the session archive operations
type Store interface {
	// RecordJoin archives a user joining the session
	RecordJoin(userID, username, color string) error
	// RecordLeave archives a user leaving the session
	RecordLeave(userID string) error
	// RecordCommand archives an appended draw or erase command
	RecordCommand(cmd *protocol.Command) error
	// RecordUndo archives an undo by the given user
	RecordUndo(userID string) error
	// RecordClear archives a canvas clear by the given user
	RecordClear(userID string) error
	// GetStats returns aggregate counters over the archive
	GetStats() (*SessionStats, error)
	// Close releases the underlying database
	Close() error
}

// SessionStats holds aggregate counters for the stats API
type SessionStats struct {
	Joins  int `json:"joins"`
	Leaves int `json:"leaves"`
	Draws  int `json:"draws"`
	Erases int `json:"erases"`
	Undos  int `json:"undos"`
	Clears int `json:"clears"`
	Total  int `json:"total_events"`
}

// Archive event kinds
const (
	eventJoin  = "join"
	eventLeave = "leave"
	eventDraw  = "draw"
	eventErase = "erase"
	eventUndo  = "undo"
	eventClear = "clear"
)
