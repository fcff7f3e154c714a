// Package sync keeps an in-memory view of a single order conversation
// consistent with the event bus: messages arrive exactly once and render
// in chronological order no matter how they arrive, and the order status
// follows the latest event.
package sync

import (
	"context"
	"encoding/json"
	"sort"
	gosync "sync"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/events"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
)

// ConnState is the subscription lifecycle visible to the UI.
type ConnState string

const (
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
	StateDisconnected ConnState = "disconnected"
)

// UserLookup resolves sender profiles for display names.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// ChatMessage is a conversation entry enriched for rendering.
type ChatMessage struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	UserID         uuid.UUID `json:"user_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	IsStatusChange bool      `json:"is_status_change"`
}

// Client follows one order at a time. Calling Watch for a new order
// tears down the previous subscription before the new one attaches, so
// events from a stale order can never bleed into the current view.
type Client struct {
	bus   events.Subscriber
	users UserLookup
	log   *logger.Logger

	mu       gosync.Mutex
	orderID  uuid.UUID
	status   domain.Status
	state    ConnState
	messages []ChatMessage
	seen     map[uuid.UUID]struct{}
	names    map[uuid.UUID]string
	sub      events.Subscription
}

func NewClient(bus events.Subscriber, users UserLookup, log *logger.Logger) *Client {
	return &Client{
		bus:   bus,
		users: users,
		log:   log,
		state: StateDisconnected,
		seen:  make(map[uuid.UUID]struct{}),
		names: make(map[uuid.UUID]string),
	}
}

// Watch switches the client to order, seeding the view from history and
// subscribing to the order's live channel.
func (c *Client) Watch(ctx context.Context, order domain.Order, history []domain.Message) error {
	c.mu.Lock()
	if c.sub != nil {
		if err := c.sub.Close(); err != nil {
			c.log.Warnf("close stale subscription for order %s: %v", c.orderID, err)
		}
		c.sub = nil
	}

	c.orderID = order.ID
	c.status = order.Status
	c.state = StateConnecting
	c.messages = c.messages[:0]
	c.seen = make(map[uuid.UUID]struct{}, len(history))
	for _, m := range history {
		c.insertLocked(ctx, m)
	}
	c.mu.Unlock()

	sub, err := c.bus.Subscribe(ctx, events.OrderChannel(order.ID), c.handleEvent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil || c.orderID != order.ID {
		c.state = StateDisconnected
		if err == nil {
			// Watch raced with a newer Watch; drop the late subscription.
			_ = sub.Close()
			return nil
		}
		return err
	}
	c.sub = sub
	c.state = StateConnected
	return nil
}

func (c *Client) handleEvent(channel string, payload []byte) {
	var env events.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.log.Warnf("malformed event on %s: %v", channel, err)
		return
	}

	switch env.EventType {
	case events.EventTypeOrderMessagePosted:
		var p events.MessagePostedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Warnf("malformed message payload on %s: %v", channel, err)
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if p.OrderID != c.orderID {
			return
		}
		c.insertLocked(context.Background(), domain.Message{
			ID:        p.ID,
			OrderID:   p.OrderID,
			UserID:    p.UserID,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		})

	case events.EventTypeOrderStatusChanged:
		var p events.StatusChangedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Warnf("malformed status payload on %s: %v", channel, err)
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if p.OrderID != c.orderID || !p.Status.Valid() {
			return
		}
		// Last write wins; stale events simply overwrite less recently.
		c.status = p.Status
	}
}

// AppendLocal echoes a message the user just sent so it renders before
// the bus delivers it back. The echo and the bus copy share an id, so
// dedup keeps exactly one.
func (c *Client) AppendLocal(msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.OrderID != c.orderID {
		return
	}
	c.insertLocked(context.Background(), msg)
}

// insertLocked adds a message unless its id was already seen, keeping
// the slice ordered by CreatedAt ascending. Callers hold c.mu.
func (c *Client) insertLocked(ctx context.Context, m domain.Message) {
	if _, dup := c.seen[m.ID]; dup {
		return
	}
	c.seen[m.ID] = struct{}{}

	cm := ChatMessage{
		ID:             m.ID,
		OrderID:        m.OrderID,
		UserID:         m.UserID,
		SenderName:     c.nameLocked(ctx, m.UserID),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		IsStatusChange: m.IsStatusChange(),
	}
	i := sort.Search(len(c.messages), func(i int) bool {
		return c.messages[i].CreatedAt.After(cm.CreatedAt)
	})
	c.messages = append(c.messages, ChatMessage{})
	copy(c.messages[i+1:], c.messages[i:])
	c.messages[i] = cm
}

func (c *Client) nameLocked(ctx context.Context, userID uuid.UUID) string {
	if name, ok := c.names[userID]; ok {
		return name
	}
	name := (domain.User{}).DisplayName()
	if c.users != nil {
		if u, err := c.users.GetByID(ctx, userID); err == nil {
			name = u.DisplayName()
		}
	}
	c.names[userID] = name
	return name
}

// Messages returns the conversation, oldest first.
func (c *Client) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Client) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close detaches from the current order channel.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDisconnected
	if c.sub == nil {
		return nil
	}
	err := c.sub.Close()
	c.sub = nil
	return err
}
