package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationStatusChange NotificationType = "STATUS_CHANGE"
	NotificationNewMessage   NotificationType = "NEW_MESSAGE"
)

// Notification is owned by its recipient and holds a weak reference to
// the order it concerns. Only the read flag ever changes after creation.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	OrderID   uuid.UUID        `json:"order_id"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
