package websocket

import (
	"context"
	"errors"
	"strings"

	"gigmarket/internal/events"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"

	"github.com/google/uuid"
)

// ChannelAuthorizer decides which event channels a connection may watch.
type ChannelAuthorizer struct {
	orders repository.OrderRepository
}

func NewChannelAuthorizer(orders repository.OrderRepository) *ChannelAuthorizer {
	return &ChannelAuthorizer{orders: orders}
}

// CanSubscribe allows a user their own user channel and the channels of
// orders they are a party to. Everything else is denied.
func (a *ChannelAuthorizer) CanSubscribe(ctx context.Context, userID uuid.UUID, channel string) (bool, error) {
	if channel == events.UserChannel(userID) {
		return true, nil
	}

	if strings.HasPrefix(channel, events.ChannelPrefixOrder) {
		orderID, err := uuid.Parse(strings.TrimPrefix(channel, events.ChannelPrefixOrder))
		if err != nil {
			return false, nil
		}
		order, err := a.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gigmarket_errors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return order.IsParty(userID), nil
	}

	return false, nil
}
