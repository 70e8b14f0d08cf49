package clients

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/logger"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

const (
	// writeWait bounds a single write to a connection
	writeWait = 10 * time.Second
	// pingPeriod is how often the write pump pings an idle connection
	pingPeriod = 30 * time.Second
)

// Hub tracks all connected clients. It satisfies the session coordinator's
// Transport interface.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	log      *logger.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
		log:      logger.Get().Component("hub"),
	}
}

// Register adds a connection under id and starts its write pump.
func (h *Hub) Register(id string, conn *websocket.Conn) (*Client, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection cannot be nil")
	}

	client := &Client{
		id:   id,
		conn: conn,
		send: make(chan *protocol.Message, sendBufferSize),
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		conn.Close()
		return nil, apperrors.ErrHubStopped
	}
	if _, exists := h.clients[id]; exists {
		h.mu.Unlock()
		conn.Close()
		return nil, fmt.Errorf("client %s already registered", id)
	}
	h.clients[id] = client
	h.mu.Unlock()

	h.wg.Add(1)
	go h.writePump(client)
	return client, nil
}

// Unregister removes a connection and closes it. Unknown ids are a no-op.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		client.Close()
	}
}

// Get returns the client registered under id.
func (h *Hub) Get(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[id]
	return client, ok
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo delivers a message to one connection only.
func (h *Hub) SendTo(id string, msg *protocol.Message) error {
	client, ok := h.Get(id)
	if !ok {
		return apperrors.ErrClientNotFound
	}
	return client.Send(msg)
}

// BroadcastExcept delivers a message to every connection except id.
func (h *Hub) BroadcastExcept(id string, msg *protocol.Message) {
	for _, client := range h.snapshot() {
		if client.id == id {
			continue
		}
		h.deliver(client, msg)
	}
}

// BroadcastAll delivers a message to every connection, sender included.
func (h *Hub) BroadcastAll(msg *protocol.Message) {
	for _, client := range h.snapshot() {
		h.deliver(client, msg)
	}
}

// Stop closes every connection and rejects further registrations.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})

	h.mu.Lock()
	h.stopped = true
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
	h.wg.Wait()
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

func (h *Hub) deliver(client *Client, msg *protocol.Message) {
	if err := client.Send(msg); err != nil {
		// Slow or closed consumer; drop the message for it.
		h.log.DebugWith("dropped message", "client_id", client.id, "event", string(msg.Type), "error", err)
	}
}

// writePump drains the client's send queue onto the wire and keeps the
// connection alive with pings.
func (h *Hub) writePump(client *Client) {
	defer h.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(msg); err != nil {
				h.log.DebugWith("write failed", "client_id", client.id, "error", err)
				h.Unregister(client.id)
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(client.id)
				return
			}
		case <-h.stopChan:
			return
		}
	}
}
