package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// statusChangeMarker identifies the system entries in the chat stream.
// The message stream doubles as the order's append-only audit log.
const statusChangeMarker = "status changed to"

// Message is one entry in an order's chat thread. Messages are created
// once and never mutated or deleted.
type Message struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStatusChangeMessage renders the system entry recorded alongside a
// status transition.
func NewStatusChangeMessage(orderID, actorID uuid.UUID, to Status) Message {
	return Message{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    actorID,
		Content:   "Order " + statusChangeMarker + " " + to.Label(),
		CreatedAt: time.Now().UTC(),
	}
}

// IsStatusChange reports whether the message is a system status entry
// rather than a chat message.
func (m Message) IsStatusChange() bool {
	return strings.Contains(m.Content, statusChangeMarker)
}
