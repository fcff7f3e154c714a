package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/events"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
)

// StatusService owns the order status state machine. Every transition is
// a guarded conditional write: the authoritative store only moves the
// order forward if it still holds the status the caller read, and the
// timeline message lands in the same transaction. Event fan-out and
// notification dispatch run after commit and can only be logged, never
// fail the transition.
type StatusService struct {
	orders       repository.OrderRepository
	notifier     *NotificationService
	publisher    events.Publisher
	log          *logger.Logger
	writeTimeout time.Duration
}

func NewStatusService(
	orders repository.OrderRepository,
	notifier *NotificationService,
	publisher events.Publisher,
	log *logger.Logger,
	writeTimeout time.Duration,
) *StatusService {
	return &StatusService{
		orders:       orders,
		notifier:     notifier,
		publisher:    publisher,
		log:          log,
		writeTimeout: writeTimeout,
	}
}

// AttemptTransition moves an order to the requested status on behalf of
// actorID. Only the order's seller may drive the machine, and requested
// must be reachable from the current status in one step.
func (s *StatusService) AttemptTransition(ctx context.Context, orderID uuid.UUID, requested domain.Status, actorID uuid.UUID) (domain.Order, error) {
	if !requested.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", gigmarket_errors.ErrInvalidInput, requested)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gigmarket_errors.ErrNotFound) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}

	if actorID != order.SellerID {
		return domain.Order{}, gigmarket_errors.ErrForbidden
	}
	if !order.Status.CanTransition(requested) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", gigmarket_errors.ErrInvalidTransition, order.Status, requested)
	}

	msg := domain.NewStatusChangeMessage(orderID, actorID, requested)

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.orders.UpdateStatus(wctx, orderID, order.Status, requested, &msg); err != nil {
		switch {
		case errors.Is(err, gigmarket_errors.ErrNotFound), errors.Is(err, gigmarket_errors.ErrInvalidTransition):
			return domain.Order{}, err
		default:
			return domain.Order{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
		}
	}
	order.Status = requested

	// The write is committed; none of the fan-out below may undo it.
	s.fanOut(context.WithoutCancel(ctx), order, msg, actorID)

	return order, nil
}

func (s *StatusService) fanOut(ctx context.Context, order domain.Order, msg domain.Message, actorID uuid.UUID) {
	payload, err := events.NewEnvelope(events.EventTypeOrderStatusChanged, events.AggregateTypeOrder, order.ID, events.StatusChangedPayload{
		OrderID: order.ID,
		Status:  order.Status,
		ActorID: actorID,
	})
	if err != nil {
		s.log.Warnf("encode status event for order %s: %v", order.ID, err)
	} else if err := s.publisher.Publish(ctx, events.OrderChannel(order.ID), payload); err != nil {
		s.log.Warnf("publish status event for order %s: %v", order.ID, err)
	}

	// The timeline message rides the same stream as chat messages so
	// open conversations pick it up live.
	msgPayload, err := events.NewEnvelope(events.EventTypeOrderMessagePosted, events.AggregateTypeOrder, order.ID, events.MessagePostedPayload{
		ID:        msg.ID,
		OrderID:   msg.OrderID,
		UserID:    msg.UserID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		s.log.Warnf("encode timeline message for order %s: %v", order.ID, err)
	} else if err := s.publisher.Publish(ctx, events.OrderChannel(order.ID), msgPayload); err != nil {
		s.log.Warnf("publish timeline message for order %s: %v", order.ID, err)
	}

	if err := s.notifier.NotifyStatusChanged(ctx, order, order.Status, actorID); err != nil {
		s.log.Warnf("notify status change for order %s: %v", order.ID, err)
	}
}
