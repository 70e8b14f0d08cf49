package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/clients"
	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// readWait bounds how long a connection may stay silent; pongs reset it
const readWait = 90 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checking
	},
}

// handleWebSocket upgrades the connection, registers it with the hub and the
// session, and starts the read pump
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WarnWith("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()

	// Hub registration and the history snapshot happen in one serialized
	// step, so no broadcast can land between them and show up twice at the
	// joiner: once live and once in the replay.
	var client *clients.Client
	err = s.coordinator.HandleConnect(id, func() error {
		var regErr error
		client, regErr = s.hub.Register(id, conn)
		return regErr
	})
	if err != nil {
		s.log.WarnWith("client registration failed", "error", err)
		conn.Close()
		return
	}

	go s.readPump(client)
}

// readPump reads inbound events until the connection dies, then removes the
// user from the session
func (s *Server) readPump(client *clients.Client) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorWith("panic in read pump", "client_id", client.ID(), "panic", r)
		}
		s.hub.Unregister(client.ID())
		s.coordinator.HandleDisconnect(client.ID())
	}()

	conn := client.Conn()
	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.WarnWith("websocket read failed", "client_id", client.ID(), "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readWait))

		if err := s.dispatcher.Dispatch(client.ID(), &msg); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrNoHistoryEntry):
				// No-op conditions of the session contract; nothing reaches clients
				s.log.DebugWith("event ignored", "client_id", client.ID(), "event", string(msg.Type))
			default:
				s.log.WarnWith("event dispatch failed", "client_id", client.ID(), "event", string(msg.Type), "error", err)
			}
		}
	}
}
