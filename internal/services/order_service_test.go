package services_test

import (
	"context"
	"testing"
	"time"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	"gigmarket/internal/services"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGig(seller uuid.UUID) domain.Gig {
	return domain.Gig{
		ID:        uuid.New(),
		SellerID:  seller,
		Title:     "Logo design",
		Price:     decimal.NewFromFloat(25),
		CreatedAt: time.Now().UTC(),
	}
}

func newOrderService(orders *fakeOrderRepo, gigs *fakeGigRepo, users *fakeUserRepo, msgs *fakeMessageRepo) *services.OrderService {
	if users == nil {
		users = newFakeUserRepo()
	}
	if msgs == nil {
		msgs = &fakeMessageRepo{}
	}
	return services.NewOrderService(orders, gigs, users, msgs, logger.NewNop())
}

func TestCreateFromGig(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()
	gig := newTestGig(seller)
	orders := newFakeOrderRepo()
	svc := newOrderService(orders, newFakeGigRepo(gig), nil, nil)

	order, err := svc.CreateFromGig(context.Background(), gig.ID, buyer, services.PurchaseInput{
		Signature: "0xsig",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.Equal(t, buyer, order.BuyerID)
	assert.Equal(t, seller, order.SellerID)
	assert.True(t, order.Amount.Equal(gig.Price))

	// Order and its opening message were created together.
	msgs := orders.recordedMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Order created and payment received", msgs[0].Content)
	assert.Equal(t, order.ID, msgs[0].OrderID)
	assert.False(t, msgs[0].IsStatusChange())
}

func TestCreateFromGigExplicitAmount(t *testing.T) {
	gig := newTestGig(uuid.New())
	svc := newOrderService(newFakeOrderRepo(), newFakeGigRepo(gig), nil, nil)

	order, err := svc.CreateFromGig(context.Background(), gig.ID, uuid.New(), services.PurchaseInput{
		Signature: "0xsig",
		Amount:    decimal.NewFromFloat(30),
	})
	require.NoError(t, err)
	assert.True(t, order.Amount.Equal(decimal.NewFromFloat(30)))
}

func TestCreateFromGigRejectsOwnGig(t *testing.T) {
	seller := uuid.New()
	gig := newTestGig(seller)
	svc := newOrderService(newFakeOrderRepo(), newFakeGigRepo(gig), nil, nil)

	_, err := svc.CreateFromGig(context.Background(), gig.ID, seller, services.PurchaseInput{Signature: "0xsig"})
	assert.ErrorIs(t, err, gigmarket_errors.ErrInvalidInput)
}

func TestCreateFromGigRequiresSignature(t *testing.T) {
	gig := newTestGig(uuid.New())
	svc := newOrderService(newFakeOrderRepo(), newFakeGigRepo(gig), nil, nil)

	_, err := svc.CreateFromGig(context.Background(), gig.ID, uuid.New(), services.PurchaseInput{})
	assert.ErrorIs(t, err, gigmarket_errors.ErrInvalidInput)
}

func TestCreateFromGigUnknownGig(t *testing.T) {
	svc := newOrderService(newFakeOrderRepo(), newFakeGigRepo(), nil, nil)

	_, err := svc.CreateFromGig(context.Background(), uuid.New(), uuid.New(), services.PurchaseInput{Signature: "0xsig"})
	assert.ErrorIs(t, err, gigmarket_errors.ErrNotFound)
}

func TestGetRestrictedToParties(t *testing.T) {
	order := newTestOrder(domain.StatusPaid)
	svc := newOrderService(newFakeOrderRepo(order), newFakeGigRepo(), nil, nil)
	ctx := context.Background()

	got, err := svc.Get(ctx, order.ID, order.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Get(ctx, order.ID, order.SellerID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gigmarket_errors.ErrForbidden)
}

func TestListByParty(t *testing.T) {
	order := newTestOrder(domain.StatusPaid)
	svc := newOrderService(newFakeOrderRepo(order), newFakeGigRepo(), nil, nil)
	ctx := context.Background()

	asBuyer, err := svc.List(ctx, order.BuyerID, repository.PartyBuyer)
	require.NoError(t, err)
	assert.Len(t, asBuyer, 1)

	asSeller, err := svc.List(ctx, order.BuyerID, repository.PartySeller)
	require.NoError(t, err)
	assert.Empty(t, asSeller)
}

func TestTimelineUsesDisplayNames(t *testing.T) {
	order := newTestOrder(domain.StatusStarted)
	seller := domain.User{ID: order.SellerID, Name: "Ada"}
	msgs := &fakeMessageRepo{}
	svc := newOrderService(newFakeOrderRepo(order), newFakeGigRepo(), newFakeUserRepo(seller), msgs)
	ctx := context.Background()

	require.NoError(t, msgs.Create(ctx, &domain.Message{
		ID:        uuid.New(),
		OrderID:   order.ID,
		UserID:    order.SellerID,
		Content:   "Order status changed to Started",
		CreatedAt: order.CreatedAt.Add(time.Minute),
	}))

	timeline, err := svc.Timeline(ctx, order.ID, order.BuyerID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Updated by Ada", timeline[0].Description)
	assert.Equal(t, "Payment Received", timeline[1].Title)

	_, err = svc.Timeline(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gigmarket_errors.ErrForbidden)
}
