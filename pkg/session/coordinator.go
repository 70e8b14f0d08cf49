package session

import (
	"sync"
	"time"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/logger"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// Transport delivers coordinator output to connections. The hub in
// pkg/clients is the production implementation. Delivery must never block:
// the coordinator calls these inside its critical section so that broadcast
// order equals log order.
type Transport interface {
	// SendTo delivers a message to one connection only
	SendTo(id string, msg *protocol.Message) error
	// BroadcastExcept delivers a message to every connection except id
	BroadcastExcept(id string, msg *protocol.Message)
	// BroadcastAll delivers a message to every connection
	BroadcastAll(msg *protocol.Message)
}

// Archive records session activity for offline statistics. It is write-only
// from the session's point of view: nothing recorded here ever feeds back
// into the registry or the history log.
type Archive interface {
	RecordJoin(userID, username, color string) error
	RecordLeave(userID string) error
	RecordCommand(cmd *protocol.Command) error
	RecordUndo(userID string) error
	RecordClear(userID string) error
}

// Coordinator owns the registry and the history log and mediates every
// inbound event. Events are applied one at a time under the mutex, which is
// the in-process equivalent of the source's single-threaded loop. Transport
// enqueues are non-blocking, so emission stays inside the critical section:
// a message for an earlier state change always reaches the send queues
// before a message for a later one. Only archive writes leave the section.
type Coordinator struct {
	mu        sync.Mutex
	registry  *Registry
	history   *History
	transport Transport
	archive   Archive // may be nil
	log       *logger.Logger
	now       func() time.Time
}

// NewCoordinator creates a coordinator over an empty session. An empty
// palette falls back to the default one; archive may be nil when no store is
// configured.
func NewCoordinator(palette []string, maxHistory int, transport Transport, archive Archive) *Coordinator {
	return &Coordinator{
		registry:  NewRegistry(palette),
		history:   NewHistory(maxHistory),
		transport: transport,
		archive:   archive,
		log:       logger.Get().Component("session"),
		now:       time.Now,
	}
}

// HandleConnect registers the connection, replays the history log to the
// joiner only, then broadcasts the refreshed user list to everyone. attach,
// when non-nil, runs first inside the same serialized step; the caller uses
// it to make the connection reachable by the transport, so no broadcast can
// slip between transport registration and the history snapshot. An attach
// error aborts the join.
func (c *Coordinator) HandleConnect(id string, attach func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attach != nil {
		if err := attach(); err != nil {
			return err
		}
	}

	user := c.registry.Join(id)
	c.log.InfoWith("user joined", "user_id", id, "username", user.Username, "color", user.Color)
	c.record(func(a Archive) error { return a.RecordJoin(user.ID, user.Username, user.Color) })

	if msg, err := protocol.NewMessage(protocol.EventLoadDrawingHistory, c.history.Snapshot()); err == nil {
		if err := c.transport.SendTo(id, msg); err != nil {
			c.log.WarnWith("history replay failed", "user_id", id, "error", err)
		}
	}

	c.broadcastUserList()
	return nil
}

// HandleDraw appends a draw command and broadcasts it to every connection
// except the sender, who already rendered the stroke locally. The color is
// looked up from the registry at draw time, not cached from connect time.
func (c *Coordinator) HandleDraw(id string, p protocol.DrawPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var color string
	if user, ok := c.registry.Get(id); ok {
		color = user.Color
	}
	cmd := protocol.Command{
		Type:        protocol.CommandDraw,
		UserID:      id,
		UserColor:   color,
		X1:          p.X1,
		Y1:          p.Y1,
		X2:          p.X2,
		Y2:          p.Y2,
		StrokeWidth: p.StrokeWidth,
		Timestamp:   c.now().UnixMilli(),
	}
	c.history.Append(cmd)
	c.record(func(a Archive) error { return a.RecordCommand(&cmd) })

	if msg, err := protocol.NewMessage(protocol.EventDraw, cmd); err == nil {
		c.transport.BroadcastExcept(id, msg)
	}
	return nil
}

// HandleErase appends an erase command and broadcasts it to every connection
// except the sender.
func (c *Coordinator) HandleErase(id string, p protocol.ErasePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := protocol.Command{
		Type:      protocol.CommandErase,
		UserID:    id,
		X:         p.X,
		Y:         p.Y,
		Radius:    p.Radius,
		Timestamp: c.now().UnixMilli(),
	}
	c.history.Append(cmd)
	c.record(func(a Archive) error { return a.RecordCommand(&cmd) })

	if msg, err := protocol.NewMessage(protocol.EventErase, cmd); err == nil {
		c.transport.BroadcastExcept(id, msg)
	}
	return nil
}

// HandleCursorMove updates the sender's cursor and tells the other
// connections. Unregistered senders are ignored.
func (c *Coordinator) HandleCursorMove(id string, p protocol.CursorMovePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.UpdateCursor(id, p.X, p.Y) {
		return apperrors.ErrUserNotFound
	}
	user, _ := c.registry.Get(id)
	payload := protocol.CursorUpdatePayload{
		UserID:   id,
		Username: user.Username,
		X:        p.X,
		Y:        p.Y,
		Color:    user.Color,
	}

	if msg, err := protocol.NewMessage(protocol.EventCursorUpdate, payload); err == nil {
		c.transport.BroadcastExcept(id, msg)
	}
	return nil
}

// HandleUndo removes the sender's most recent command, regardless of its
// type, then ships the entire remaining log to every connection including
// the sender: reversing a stroke means every client re-renders from scratch.
// With nothing to undo, the log is untouched and nothing is broadcast.
func (c *Coordinator) HandleUndo(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.history.LastIndexByUser(id)
	if index < 0 {
		c.log.DebugWith("undo ignored, no history entry", "user_id", id)
		return apperrors.ErrNoHistoryEntry
	}
	c.history.RemoveAt(index)
	c.record(func(a Archive) error { return a.RecordUndo(id) })

	payload := protocol.UndoActionPayload{
		UserID:          id,
		PreviousHistory: c.history.Snapshot(),
	}
	if msg, err := protocol.NewMessage(protocol.EventUndoAction, payload); err == nil {
		c.transport.BroadcastAll(msg)
	}
	return nil
}

// HandleRedo is deliberately unimplemented; the event is acknowledged with a
// diagnostic log and nothing reaches clients.
func (c *Coordinator) HandleRedo(id string) error {
	c.log.InfoWith("redo requested but not supported", "user_id", id)
	return nil
}

// HandleClearCanvas empties the log unconditionally and tells everyone,
// including the sender. Clearing an empty log is a valid no-op clear.
func (c *Coordinator) HandleClearCanvas(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history.Clear()
	c.log.InfoWith("canvas cleared", "user_id", id)
	c.record(func(a Archive) error { return a.RecordClear(id) })

	if msg, err := protocol.NewMessage(protocol.EventCanvasCleared, nil); err == nil {
		c.transport.BroadcastAll(msg)
	}
	return nil
}

// HandleDisconnect drops the registry entry and tells every remaining
// connection to remove the cursor, then refreshes their user list. History
// entries from the departed user stay in the log.
func (c *Coordinator) HandleDisconnect(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.Leave(id)
	c.log.InfoWith("user left", "user_id", id)
	c.record(func(a Archive) error { return a.RecordLeave(id) })

	if msg, err := protocol.NewMessage(protocol.EventCursorRemoved, protocol.CursorRemovedPayload{UserID: id}); err == nil {
		c.transport.BroadcastAll(msg)
	}

	c.broadcastUserList()
	return nil
}

// Users returns the current user list snapshot.
func (c *Coordinator) Users() []protocol.UserInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.List()
}

// UserCount returns the current registry size.
func (c *Coordinator) UserCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Size()
}

// HistorySnapshot returns the current log, the same data a joiner receives.
func (c *Coordinator) HistorySnapshot() []protocol.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Snapshot()
}

// HistoryLen returns the current log length.
func (c *Coordinator) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Len()
}

// broadcastUserList is called with the mutex held.
func (c *Coordinator) broadcastUserList() {
	if msg, err := protocol.NewMessage(protocol.EventUserListUpdate, c.registry.List()); err == nil {
		c.transport.BroadcastAll(msg)
	}
}

// record runs an archive write off the event path. Archive failures are
// logged and never reach clients.
func (c *Coordinator) record(fn func(Archive) error) {
	if c.archive == nil {
		return
	}
	archive := c.archive
	go func() {
		if err := fn(archive); err != nil {
			c.log.WarnWith("archive write failed", "error", err)
		}
	}()
}
