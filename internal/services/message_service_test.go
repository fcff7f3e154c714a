package services_test

import (
	"context"
	"testing"

	"gigmarket/internal/domain"
	"gigmarket/internal/events"
	"gigmarket/internal/services"
	"gigmarket/internal/viewers"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(orders *fakeOrderRepo, msgs *fakeMessageRepo, pub *fakePublisher, registry *viewers.Registry) *services.MessageService {
	log := logger.NewNop()
	notifier := services.NewNotificationService(&fakeNotificationRepo{}, registry, pub, log)
	return services.NewMessageService(orders, msgs, notifier, pub, log)
}

func TestPostMessage(t *testing.T) {
	order := newTestOrder(domain.StatusInProgress)
	msgs := &fakeMessageRepo{}
	pub := &fakePublisher{}
	svc := newMessageService(newFakeOrderRepo(order), msgs, pub, viewers.NewRegistry())

	msg, err := svc.PostMessage(context.Background(), order.ID, order.BuyerID, "  how is it going?  ")
	require.NoError(t, err)

	assert.Equal(t, "how is it going?", msg.Content)
	assert.Equal(t, order.BuyerID, msg.UserID)
	require.Len(t, msgs.messages, 1)

	// Message event to the order channel, notification to the seller.
	published := pub.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.OrderChannel(order.ID), published[0].channel)
	assert.Equal(t, events.UserChannel(order.SellerID), published[1].channel)
}

func TestPostMessageEmptyContent(t *testing.T) {
	order := newTestOrder(domain.StatusInProgress)
	svc := newMessageService(newFakeOrderRepo(order), &fakeMessageRepo{}, &fakePublisher{}, viewers.NewRegistry())

	_, err := svc.PostMessage(context.Background(), order.ID, order.BuyerID, "   ")
	assert.ErrorIs(t, err, gigmarket_errors.ErrInvalidInput)
}

func TestPostMessageNonParty(t *testing.T) {
	order := newTestOrder(domain.StatusInProgress)
	svc := newMessageService(newFakeOrderRepo(order), &fakeMessageRepo{}, &fakePublisher{}, viewers.NewRegistry())

	_, err := svc.PostMessage(context.Background(), order.ID, uuid.New(), "hi")
	assert.ErrorIs(t, err, gigmarket_errors.ErrForbidden)
}

func TestPostMessageUnknownOrder(t *testing.T) {
	svc := newMessageService(newFakeOrderRepo(), &fakeMessageRepo{}, &fakePublisher{}, viewers.NewRegistry())

	_, err := svc.PostMessage(context.Background(), uuid.New(), uuid.New(), "hi")
	assert.ErrorIs(t, err, gigmarket_errors.ErrNotFound)
}

func TestListMessagesRestrictedToParties(t *testing.T) {
	order := newTestOrder(domain.StatusInProgress)
	msgs := &fakeMessageRepo{}
	svc := newMessageService(newFakeOrderRepo(order), msgs, &fakePublisher{}, viewers.NewRegistry())
	ctx := context.Background()

	_, err := svc.PostMessage(ctx, order.ID, order.BuyerID, "one")
	require.NoError(t, err)

	listed, err := svc.ListMessages(ctx, order.ID, order.SellerID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListMessages(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gigmarket_errors.ErrForbidden)
}
