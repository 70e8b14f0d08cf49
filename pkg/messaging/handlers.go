package messaging

import (
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/session"
)

// DrawHandler handles draw events
type DrawHandler struct {
	coordinator *session.Coordinator
}

// NewDrawHandler creates a new draw handler
func NewDrawHandler(c *session.Coordinator) *DrawHandler {
	return &DrawHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *DrawHandler) EventType() protocol.EventType {
	return protocol.EventDraw
}

// Handle processes a draw event
func (h *DrawHandler) Handle(clientID string, msg *protocol.Message) error {
	var p protocol.DrawPayload
	if err := msg.ParsePayload(&p); err != nil {
		return err
	}
	return h.coordinator.HandleDraw(clientID, p)
}

// EraseHandler handles erase events
type EraseHandler struct {
	coordinator *session.Coordinator
}

// NewEraseHandler creates a new erase handler
func NewEraseHandler(c *session.Coordinator) *EraseHandler {
	return &EraseHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *EraseHandler) EventType() protocol.EventType {
	return protocol.EventErase
}

// Handle processes an erase event
func (h *EraseHandler) Handle(clientID string, msg *protocol.Message) error {
	var p protocol.ErasePayload
	if err := msg.ParsePayload(&p); err != nil {
		return err
	}
	return h.coordinator.HandleErase(clientID, p)
}

// CursorMoveHandler handles cursorMove events
type CursorMoveHandler struct {
	coordinator *session.Coordinator
}

// NewCursorMoveHandler creates a new cursor move handler
func NewCursorMoveHandler(c *session.Coordinator) *CursorMoveHandler {
	return &CursorMoveHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *CursorMoveHandler) EventType() protocol.EventType {
	return protocol.EventCursorMove
}

// Handle processes a cursorMove event
func (h *CursorMoveHandler) Handle(clientID string, msg *protocol.Message) error {
	var p protocol.CursorMovePayload
	if err := msg.ParsePayload(&p); err != nil {
		return err
	}
	return h.coordinator.HandleCursorMove(clientID, p)
}

// UndoHandler handles undo events
type UndoHandler struct {
	coordinator *session.Coordinator
}

// NewUndoHandler creates a new undo handler
func NewUndoHandler(c *session.Coordinator) *UndoHandler {
	return &UndoHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *UndoHandler) EventType() protocol.EventType {
	return protocol.EventUndo
}

// Handle processes an undo event
func (h *UndoHandler) Handle(clientID string, msg *protocol.Message) error {
	return h.coordinator.HandleUndo(clientID)
}

// RedoHandler handles redo events, which the session does not support
type RedoHandler struct {
	coordinator *session.Coordinator
}

// NewRedoHandler creates a new redo handler
func NewRedoHandler(c *session.Coordinator) *RedoHandler {
	return &RedoHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *RedoHandler) EventType() protocol.EventType {
	return protocol.EventRedo
}

// Handle acknowledges a redo event without acting on it
func (h *RedoHandler) Handle(clientID string, msg *protocol.Message) error {
	return h.coordinator.HandleRedo(clientID)
}

// ClearCanvasHandler handles clearCanvas events
type ClearCanvasHandler struct {
	coordinator *session.Coordinator
}

// NewClearCanvasHandler creates a new clear canvas handler
func NewClearCanvasHandler(c *session.Coordinator) *ClearCanvasHandler {
	return &ClearCanvasHandler{coordinator: c}
}

// EventType returns the event type this handler processes
func (h *ClearCanvasHandler) EventType() protocol.EventType {
	return protocol.EventClearCanvas
}

// Handle processes a clearCanvas event
func (h *ClearCanvasHandler) Handle(clientID string, msg *protocol.Message) error {
	return h.coordinator.HandleClearCanvas(clientID)
}

// RegisterSessionHandlers wires every session event handler into the
// dispatcher.
func RegisterSessionHandlers(d *Dispatcher, c *session.Coordinator) error {
	handlers := []Handler{
		NewDrawHandler(c),
		NewEraseHandler(c),
		NewCursorMoveHandler(c),
		NewUndoHandler(c),
		NewRedoHandler(c),
		NewClearCanvasHandler(c),
	}
	for _, h := range handlers {
		if err := d.Register(h); err != nil {
			return err
		}
	}
	return nil
}
