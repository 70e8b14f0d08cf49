package session

import (
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// History is the ordered command log shared by all connections. Insertion
// order is broadcast order is replay order for late joiners. It is not safe
// for concurrent use; the Coordinator serializes all access.
type History struct {
	commands []protocol.Command
	maxLen   int
}

// NewHistory creates an empty log. maxLen caps the log when > 0; 0 keeps it
// unbounded, which is the source behavior.
func NewHistory(maxLen int) *History {
	return &History{maxLen: maxLen}
}

// Append adds a command at the tail. When a cap is configured and reached,
// the oldest entry is dropped first.
func (h *History) Append(cmd protocol.Command) {
	if h.maxLen > 0 && len(h.commands) >= h.maxLen {
		h.commands = h.commands[1:]
	}
	h.commands = append(h.commands, cmd)
}

// LastIndexByUser returns the highest index whose entry belongs to userID,
// or -1 when the user has no entry. The most recent entry wins regardless of
// command type.
func (h *History) LastIndexByUser(userID string) int {
	for i := len(h.commands) - 1; i >= 0; i-- {
		if h.commands[i].UserID == userID {
			return i
		}
	}
	return -1
}

// RemoveAt removes exactly one entry, keeping the survivors contiguous and
// in their relative order. Out-of-range indexes are a no-op.
func (h *History) RemoveAt(index int) {
	if index < 0 || index >= len(h.commands) {
		return
	}
	h.commands = append(h.commands[:index], h.commands[index+1:]...)
}

// Clear discards all entries. The session keeps accepting appends afterwards.
func (h *History) Clear() {
	h.commands = nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.commands)
}

// Snapshot returns a copy of the log for replay to new joiners. The copy
// keeps later appends from racing a marshal in a send pump.
func (h *History) Snapshot() []protocol.Command {
	snapshot := make([]protocol.Command, len(h.commands))
	copy(snapshot, h.commands)
	return snapshot
}
