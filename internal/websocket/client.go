package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	readWait     = 60 * time.Second
	sendBuffer   = 256
)

// Client is one authenticated websocket connection. A user may hold
// several at once (multiple tabs), each with its own subscriptions.
type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte

	mu       sync.RWMutex // protects channels and conn writes
	channels map[string]bool
}

func NewClient(conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		channels: make(map[string]bool),
	}
}

func (c *Client) addChannel(channel string) {
	c.mu.Lock()
	c.channels[channel] = true
	c.mu.Unlock()
}

func (c *Client) removeChannel(channel string) {
	c.mu.Lock()
	delete(c.channels, channel)
	c.mu.Unlock()
}

func (c *Client) IsSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

func (c *Client) Channels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	return channels
}

// WriteLoop drains the Send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.close()
				return
			}
			c.mu.Lock()
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
			c.mu.Unlock()
		case <-ticker.C:
			c.mu.Lock()
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	_ = c.Conn.Close()
	c.mu.Unlock()
}

// SendMessage enqueues msg without blocking; a slow consumer loses
// messages rather than stalling the hub.
func (c *Client) SendMessage(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}
