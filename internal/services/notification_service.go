package services

import (
	"context"
	"fmt"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/events"
	"gigmarket/internal/repository"
	"gigmarket/internal/viewers"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
)

// messagePreviewLimit caps how much of a chat message is echoed into
// the notification body.
const messagePreviewLimit = 50

const notificationPageSize = 10

// NotificationService creates per-user notifications for order activity
// and fans them out on the user's event channel. Dispatch runs after the
// triggering write has committed, so every error here is reported to the
// caller for logging only and never rolls anything back.
type NotificationService struct {
	notifications repository.NotificationRepository
	viewers       *viewers.Registry
	publisher     events.Publisher
	log           *logger.Logger
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	registry *viewers.Registry,
	publisher events.Publisher,
	log *logger.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		viewers:       registry,
		publisher:     publisher,
		log:           log,
	}
}

// NotifyStatusChanged notifies the counterparty of the actor about a
// status change. The actor is never notified of their own action.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, order domain.Order, status domain.Status, actorID uuid.UUID) error {
	recipient, ok := order.Counterparty(actorID)
	if !ok {
		return fmt.Errorf("actor %s is not a party to order %s", actorID, order.ID)
	}

	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    recipient,
		Type:      domain.NotificationStatusChange,
		Content:   "Order status changed to " + status.Label(),
		OrderID:   order.ID,
		CreatedAt: time.Now().UTC(),
	}
	return s.deliver(ctx, n)
}

// NotifyMessagePosted notifies the counterparty about a new chat message,
// unless the registry reports them as actively viewing the order. The
// registry is a best-effort cache; when in doubt we notify.
func (s *NotificationService) NotifyMessagePosted(ctx context.Context, order domain.Order, msg domain.Message) error {
	recipient, ok := order.Counterparty(msg.UserID)
	if !ok {
		return fmt.Errorf("author %s is not a party to order %s", msg.UserID, order.ID)
	}
	if s.viewers != nil && s.viewers.IsActive(recipient, order.ID) {
		return nil
	}

	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    recipient,
		Type:      domain.NotificationNewMessage,
		Content:   "New message: " + previewOf(msg.Content),
		OrderID:   order.ID,
		CreatedAt: time.Now().UTC(),
	}
	return s.deliver(ctx, n)
}

func (s *NotificationService) deliver(ctx context.Context, n domain.Notification) error {
	if err := s.notifications.Create(ctx, &n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	payload, err := events.NewEnvelope(events.EventTypeNotificationCreated, events.AggregateTypeNotification, n.ID, n)
	if err != nil {
		s.log.Warnf("encode notification event: %v", err)
		return nil
	}
	if err := s.publisher.Publish(ctx, events.UserChannel(n.UserID), payload); err != nil {
		s.log.Warnf("publish notification %s: %v", n.ID, err)
	}
	return nil
}

// List returns the caller's most recent notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, notificationPageSize)
}

// MarkRead sets the read flag on a notification owned by the caller.
// Marking an already-read notification is a no-op that still succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) (domain.Notification, error) {
	return s.notifications.MarkRead(ctx, id, userID, true)
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLimit {
		return content
	}
	return string(runes[:messagePreviewLimit]) + "..."
}
