package clients

import (
	"sync"

	"github.com/gorilla/websocket"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// sendBufferSize is the per-connection outbound queue depth. A full queue
// means the consumer is too slow and the message is dropped for it.
const sendBufferSize = 256

// Client is one live connection known to the hub.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan *protocol.Message

	mu     sync.RWMutex
	closed bool
}

// ID returns the connection identity.
func (c *Client) ID() string {
	return c.id
}

// Conn returns the underlying WebSocket connection. The read side belongs to
// the caller; the hub only writes.
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

// Send queues a message for the write pump without blocking. Returns
// ErrSendBufferFull when the queue is full and ErrClientClosed when the
// client is already closed.
func (c *Client) Send(msg *protocol.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return apperrors.ErrClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return apperrors.ErrSendBufferFull
	}
}

// Close shuts the connection down once; repeat calls are no-ops.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.send)
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsClosed reports whether Close has run.
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
