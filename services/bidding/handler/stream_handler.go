package handler

import (
	"errors"
	"net/http"
	"time"

	"auction-house/internal/biddingerrors"
	"auction-house/internal/hub"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// StreamHandler pushes broadcasts to participants over websockets and
// relays the text frames they send as chat messages
type StreamHandler struct {
	service  BiddingServiceInterface
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewStreamHandler(service BiddingServiceInterface, h *hub.Hub) *StreamHandler {
	return &StreamHandler{
		service: service,
		hub:     h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// clients are CLI programs, not browsers, so there is no Origin to trust
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /ws?user_id=... for a registered user.
// The participant is removed once their last connection goes away.
func (s *StreamHandler) Stream(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("missing user_id query parameter"), "invalid request payload")
		return
	}
	if !s.service.IsRegistered(userID) {
		utils.Warn("StreamHandler: refusing unregistered user", map[string]any{"user_id": userID})
		utils.JSONError(c, http.StatusForbidden, biddingerrors.ErrUserNotRegistered, "user not registered")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied
		utils.Warn("StreamHandler: upgrade failed", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	client := s.hub.Subscribe(userID)
	utils.Info("StreamHandler: client connected", map[string]any{"user_id": userID, "client_id": client.ID()})

	go s.writePump(conn, client)
	s.readPump(conn, client)
}

// readPump consumes frames until the peer goes away, then tears the session down
func (s *StreamHandler) readPump(conn *websocket.Conn, client *hub.Client) {
	defer func() {
		remaining := s.hub.Unsubscribe(client)
		conn.Close()

		if remaining > 0 {
			utils.Info("StreamHandler: client disconnected, user still connected", map[string]any{
				"user_id":     client.UserID(),
				"client_id":   client.ID(),
				"connections": remaining,
			})
			return
		}
		if err := s.service.RemoveUser(client.UserID()); err != nil && !errors.Is(err, biddingerrors.ErrUserNotRegistered) {
			utils.Warn("StreamHandler: failed to remove user", map[string]any{"user_id": client.UserID(), "error": err.Error()})
		}
		utils.Info("StreamHandler: client disconnected", map[string]any{"user_id": client.UserID(), "client_id": client.ID()})
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Warn("StreamHandler: unexpected close", map[string]any{"user_id": client.UserID(), "error": err.Error()})
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := s.service.SendMessage(client.UserID(), string(payload)); err != nil {
			utils.Warn("StreamHandler: chat message rejected", map[string]any{"user_id": client.UserID(), "error": err.Error()})
		}
	}
}

// writePump forwards hub messages to the socket and keeps it alive with pings
func (s *StreamHandler) writePump(conn *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
