package repository

import (
	"context"

	"github.com/google/uuid"

	"gigmarket/internal/domain"
)

// Party selects which side of an order a listing query filters on.
type Party string

const (
	PartyBuyer  Party = "buyer"
	PartySeller Party = "seller"
)

type OrderRepository interface {
	// Create persists the order together with its initial system
	// message in one transaction.
	Create(ctx context.Context, o *domain.Order, initial *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListByParty(ctx context.Context, userID uuid.UUID, party Party) ([]domain.Order, error)
	// UpdateStatus performs the guarded status write: the status column
	// is updated only if it still equals expected, and the timeline
	// message is appended in the same transaction. A reader never sees
	// one without the other.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, expected, next domain.Status, msg *domain.Message) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// ListByOrder returns messages in ascending createdAt order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Message, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the most recent notifications first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	// MarkRead flips the read flag for a notification owned by userID.
	// Repeated calls are harmless.
	MarkRead(ctx context.Context, id, userID uuid.UUID, read bool) (domain.Notification, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Upsert(ctx context.Context, u *domain.User) error
}

type GigRepository interface {
	Create(ctx context.Context, g *domain.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Gig, error)
	List(ctx context.Context, category string, limit int) ([]domain.Gig, error)
}
