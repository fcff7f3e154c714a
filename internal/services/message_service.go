package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/events"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
)

const maxMessageLength = 4000

// MessageService handles the order conversation: posting messages and
// reading them back in chronological order. Only the order's two parties
// may do either.
type MessageService struct {
	orders    repository.OrderRepository
	messages  repository.MessageRepository
	notifier  *NotificationService
	publisher events.Publisher
	log       *logger.Logger
}

func NewMessageService(
	orders repository.OrderRepository,
	messages repository.MessageRepository,
	notifier *NotificationService,
	publisher events.Publisher,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		orders:    orders,
		messages:  messages,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// PostMessage appends a chat message to the order conversation, then
// fans it out to the order channel and the counterparty's notifications.
func (s *MessageService) PostMessage(ctx context.Context, orderID, authorID uuid.UUID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, fmt.Errorf("%w: empty message", gigmarket_errors.ErrInvalidInput)
	}
	if len(content) > maxMessageLength {
		return domain.Message{}, fmt.Errorf("%w: message too long", gigmarket_errors.ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gigmarket_errors.ErrNotFound) {
			return domain.Message{}, err
		}
		return domain.Message{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}
	if !order.IsParty(authorID) {
		return domain.Message{}, gigmarket_errors.ErrForbidden
	}

	msg := domain.Message{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, &msg); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}

	s.fanOut(context.WithoutCancel(ctx), order, msg)

	return msg, nil
}

func (s *MessageService) fanOut(ctx context.Context, order domain.Order, msg domain.Message) {
	payload, err := events.NewEnvelope(events.EventTypeOrderMessagePosted, events.AggregateTypeOrder, order.ID, events.MessagePostedPayload{
		ID:        msg.ID,
		OrderID:   msg.OrderID,
		UserID:    msg.UserID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		s.log.Warnf("encode message event for order %s: %v", order.ID, err)
	} else if err := s.publisher.Publish(ctx, events.OrderChannel(order.ID), payload); err != nil {
		s.log.Warnf("publish message %s: %v", msg.ID, err)
	}

	if err := s.notifier.NotifyMessagePosted(ctx, order, msg); err != nil {
		s.log.Warnf("notify message %s: %v", msg.ID, err)
	}
}

// ListMessages returns the order conversation in ascending createdAt
// order, restricted to the order's parties.
func (s *MessageService) ListMessages(ctx context.Context, orderID, requesterID uuid.UUID) ([]domain.Message, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsParty(requesterID) {
		return nil, gigmarket_errors.ErrForbidden
	}
	return s.messages.ListByOrder(ctx, orderID)
}
