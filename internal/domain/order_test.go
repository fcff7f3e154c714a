package domain_test

import (
	"testing"

	"gigmarket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusGraph(t *testing.T) {
	tests := []struct {
		from domain.Status
		to   domain.Status
		ok   bool
	}{
		{domain.StatusPaid, domain.StatusStarted, true},
		{domain.StatusStarted, domain.StatusInProgress, true},
		{domain.StatusInProgress, domain.StatusReview, true},
		{domain.StatusReview, domain.StatusCompleted, true},
		{domain.StatusReview, domain.StatusInProgress, true},

		{domain.StatusPaid, domain.StatusCompleted, false},
		{domain.StatusStarted, domain.StatusReview, false},
		{domain.StatusCompleted, domain.StatusReview, false},
		{domain.StatusCancelled, domain.StatusPaid, false},
		{domain.StatusPaid, domain.StatusPaid, false},
	}

	for _, tc := range tests {
		assert.Equalf(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, domain.StatusCompleted.Terminal())
	assert.True(t, domain.StatusCancelled.Terminal())
	assert.False(t, domain.StatusReview.Terminal())
	assert.False(t, domain.Status("BOGUS").Terminal())
}

func TestStatusValid(t *testing.T) {
	for _, s := range domain.AllStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.Status("SHIPPED").Valid())
	assert.False(t, domain.Status("").Valid())
}

func TestStatusNextStatusesIsACopy(t *testing.T) {
	next := domain.StatusReview.NextStatuses()
	require.Len(t, next, 2)
	next[0] = domain.StatusCancelled

	again := domain.StatusReview.NextStatuses()
	assert.Equal(t, domain.StatusCompleted, again[0])
}

func TestOrderCounterparty(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	order := domain.Order{BuyerID: buyer, SellerID: seller}

	got, ok := order.Counterparty(buyer)
	require.True(t, ok)
	assert.Equal(t, seller, got)

	got, ok = order.Counterparty(seller)
	require.True(t, ok)
	assert.Equal(t, buyer, got)

	_, ok = order.Counterparty(uuid.New())
	assert.False(t, ok)
}

func TestOrderIsParty(t *testing.T) {
	order := domain.Order{BuyerID: uuid.New(), SellerID: uuid.New()}

	assert.True(t, order.IsParty(order.BuyerID))
	assert.True(t, order.IsParty(order.SellerID))
	assert.False(t, order.IsParty(uuid.New()))
}

func TestStatusChangeMessage(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()

	msg := domain.NewStatusChangeMessage(orderID, actorID, domain.StatusInProgress)

	assert.Equal(t, orderID, msg.OrderID)
	assert.Equal(t, actorID, msg.UserID)
	assert.Equal(t, "Order status changed to In Progress", msg.Content)
	assert.True(t, msg.IsStatusChange())

	chat := domain.Message{Content: "hello there"}
	assert.False(t, chat.IsStatusChange())
}
