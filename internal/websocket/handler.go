package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gigmarket/internal/events"
	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"
	"gigmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// controlFrame is the inbound message shape: clients drive their channel
// subscriptions over the socket itself.
type controlFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type ackFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	auth       *services.AuthService
	hub        *Hub
	authorizer *ChannelAuthorizer
	log        *logger.Logger
}

func NewHandler(auth *services.AuthService, hub *Hub, authorizer *ChannelAuthorizer, log *logger.Logger) *Handler {
	return &Handler{auth: auth, hub: hub, authorizer: authorizer, log: log}
}

// Connect upgrades the request and serves the connection until the peer
// goes away. The token rides a query parameter because browsers cannot
// set headers on websocket upgrades.
func (h *Handler) Connect(c *gin.Context) {
	identity, err := h.auth.ResolveIdentity(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, identity.UserID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	// Every connection watches its own user channel for notifications.
	h.hub.Subscribe(client, events.UserChannel(identity.UserID))

	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		h.handleControl(ctx, client, raw)
	}

	h.hub.Unregister(client)
}

func (h *Handler) handleControl(ctx context.Context, client *Client, raw []byte) {
	var frame controlFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Channel == "" {
		h.sendAck(client, ackFrame{Type: "error", Error: "malformed control frame"})
		return
	}

	switch frame.Action {
	case "subscribe":
		ok, err := h.authorizer.CanSubscribe(ctx, client.UserID, frame.Channel)
		if err != nil {
			h.log.Warnf("authorize channel %s for user %s: %v", frame.Channel, client.UserID, err)
			h.sendAck(client, ackFrame{Type: "error", Channel: frame.Channel, Error: "subscription failed"})
			return
		}
		if !ok {
			h.sendAck(client, ackFrame{Type: "error", Channel: frame.Channel, Error: "channel not allowed"})
			return
		}
		h.hub.Subscribe(client, frame.Channel)
		h.sendAck(client, ackFrame{Type: "subscribed", Channel: frame.Channel})
	case "unsubscribe":
		h.hub.Unsubscribe(client, frame.Channel)
		h.sendAck(client, ackFrame{Type: "unsubscribed", Channel: frame.Channel})
	default:
		h.sendAck(client, ackFrame{Type: "error", Error: "unknown action"})
	}
}

func (h *Handler) sendAck(client *Client, frame ackFrame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		return
	}
	client.SendMessage(raw)
}
