package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of event being sent
type EventType string

// Inbound events (client -> server)
const (
	EventDraw        EventType = "draw"
	EventErase       EventType = "erase"
	EventCursorMove  EventType = "cursorMove"
	EventUndo        EventType = "undo"
	EventRedo        EventType = "redo"
	EventClearCanvas EventType = "clearCanvas"
)

// Outbound events (server -> client). EventDraw and EventErase are reused
// for the sender-exclusive stroke broadcasts.
const (
	EventLoadDrawingHistory EventType = "loadDrawingHistory"
	EventCursorUpdate       EventType = "cursorUpdate"
	EventUndoAction         EventType = "undoAction"
	EventCanvasCleared      EventType = "canvasCleared"
	EventCursorRemoved      EventType = "cursorRemoved"
	EventUserListUpdate     EventType = "userListUpdate"
)

// Message is the envelope for all events on the wire
type Message struct {
	Type      EventType       `json:"type"`
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a message with a marshaled payload. A nil payload
// produces an empty-payload message (canvasCleared, undo, ...).
func NewMessage(eventType EventType, payload interface{}) (*Message, error) {
	msg := &Message{
		Type:      eventType,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}

	return msg, nil
}

// ParsePayload unmarshals the payload into the given value
func (m *Message) ParsePayload(v interface{}) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
