package messaging

import (
	"fmt"
	"sync"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/logger"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// Handler handles a specific inbound event type
type Handler interface {
	// Handle processes an event from the given connection
	Handle(clientID string, msg *protocol.Message) error
	// EventType returns the event type this handler processes
	EventType() protocol.EventType
}

// Dispatcher routes inbound events to registered handlers
type Dispatcher struct {
	handlers map[protocol.EventType]Handler
	mu       sync.RWMutex
	log      *logger.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[protocol.EventType]Handler),
		log:      logger.Get().Component("dispatcher"),
	}
}

// Register registers a handler for its event type
func (d *Dispatcher) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	eventType := handler.EventType()
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[eventType]; exists {
		return fmt.Errorf("handler already registered for event type: %s", eventType)
	}

	d.handlers[eventType] = handler
	d.log.DebugWith("registered handler", "event", string(eventType))
	return nil
}

// Dispatch routes an event to its handler
func (d *Dispatcher) Dispatch(clientID string, msg *protocol.Message) error {
	d.mu.RLock()
	handler, exists := d.handlers[msg.Type]
	d.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownEventType, msg.Type)
	}

	return handler.Handle(clientID, msg)
}

// HasHandler checks if a handler exists for the event type
func (d *Dispatcher) HasHandler(eventType protocol.EventType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, exists := d.handlers[eventType]
	return exists
}
