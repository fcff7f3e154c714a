package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseInput carries the payment proof recorded with a new order.
type PurchaseInput struct {
	Signature    string
	BuyerAddress string
	Amount       decimal.Decimal
}

// OrderService creates orders from gigs and reads them back for their
// parties. An order is born PAID: purchase happens upstream and this
// service only records its outcome.
type OrderService struct {
	orders repository.OrderRepository
	gigs   repository.GigRepository
	users  repository.UserRepository
	msgs   repository.MessageRepository
	log    *logger.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	gigs repository.GigRepository,
	users repository.UserRepository,
	msgs repository.MessageRepository,
	log *logger.Logger,
) *OrderService {
	return &OrderService{orders: orders, gigs: gigs, users: users, msgs: msgs, log: log}
}

// CreateFromGig records a completed purchase of a gig. The order row and
// its opening system message commit together.
func (s *OrderService) CreateFromGig(ctx context.Context, gigID, buyerID uuid.UUID, in PurchaseInput) (domain.Order, error) {
	if in.Signature == "" {
		return domain.Order{}, fmt.Errorf("%w: missing payment signature", gigmarket_errors.ErrInvalidInput)
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, gigmarket_errors.ErrNotFound) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}
	if gig.SellerID == buyerID {
		return domain.Order{}, fmt.Errorf("%w: cannot order your own gig", gigmarket_errors.ErrInvalidInput)
	}

	amount := in.Amount
	if amount.IsZero() {
		amount = gig.Price
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:           uuid.New(),
		GigID:        gig.ID,
		BuyerID:      buyerID,
		SellerID:     gig.SellerID,
		Status:       domain.StatusPaid,
		Amount:       amount,
		Signature:    in.Signature,
		BuyerAddress: in.BuyerAddress,
		CreatedAt:    now,
	}
	initial := domain.Message{
		ID:        uuid.New(),
		OrderID:   order.ID,
		UserID:    buyerID,
		Content:   "Order created and payment received",
		CreatedAt: now,
	}
	if err := s.orders.Create(ctx, &order, &initial); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}
	return order, nil
}

// Get returns the order if the requester is one of its parties.
func (s *OrderService) Get(ctx context.Context, orderID, requesterID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.IsParty(requesterID) {
		return domain.Order{}, gigmarket_errors.ErrForbidden
	}
	return order, nil
}

// List returns orders where the caller is the given party, newest first.
func (s *OrderService) List(ctx context.Context, userID uuid.UUID, party repository.Party) ([]domain.Order, error) {
	return s.orders.ListByParty(ctx, userID, party)
}

// Timeline derives the order's activity feed from its message history,
// newest first.
func (s *OrderService) Timeline(ctx context.Context, orderID, requesterID uuid.UUID) ([]domain.TimelineEvent, error) {
	order, err := s.Get(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.msgs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gigmarket_errors.ErrPersistenceFailure, err)
	}

	names := make(map[uuid.UUID]string, 2)
	for _, id := range []uuid.UUID{order.BuyerID, order.SellerID} {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			// Missing profile falls back to the anonymous display name.
			continue
		}
		names[id] = u.DisplayName()
	}

	return domain.Timeline(order, msgs, names), nil
}
