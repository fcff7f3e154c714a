package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gigmarket/internal/domain"
)

// Event type constants, format: domain.action.
const (
	EventTypeOrderStatusChanged  = "order.status_changed"
	EventTypeOrderMessagePosted  = "order.message_posted"
	EventTypeNotificationCreated = "notification.created"
)

// Aggregate type constants
const (
	AggregateTypeOrder        = "order"
	AggregateTypeNotification = "notification"
)

// Redis channel prefixes
const (
	ChannelPrefixOrder = "channel:order:"
	ChannelPrefixUser  = "channel:user:"
)

func OrderChannel(orderID uuid.UUID) string {
	return ChannelPrefixOrder + orderID.String()
}

func UserChannel(userID uuid.UUID) string {
	return ChannelPrefixUser + userID.String()
}

// Envelope is the wire shape of every bus event.
type Envelope struct {
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into a ready-to-publish envelope.
func NewEnvelope(eventType, aggregateType string, aggregateID uuid.UUID, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID.String(),
		OccurredAt:    time.Now().UTC(),
		Payload:       raw,
	})
}

type StatusChangedPayload struct {
	OrderID uuid.UUID     `json:"order_id"`
	Status  domain.Status `json:"status"`
	ActorID uuid.UUID     `json:"actor_id"`
}

type MessagePostedPayload struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Handler receives raw payloads from a subscription.
type Handler func(channel string, payload []byte)

// Subscription is a live channel subscription. Closing it releases the
// underlying connection and stops delivery.
type Subscription interface {
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error)
	SubscribePattern(ctx context.Context, pattern string, handler Handler) (Subscription, error)
}

type Bus interface {
	Publisher
	Subscriber
}
