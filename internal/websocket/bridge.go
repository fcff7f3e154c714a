package websocket

import (
	"context"

	"gigmarket/internal/events"
)

// Bridge pipes every bus event into the hub so one pattern subscription
// serves all connected clients.
type Bridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewBridge(subscriber events.Subscriber, hub *Hub) *Bridge {
	return &Bridge{subscriber: subscriber, hub: hub}
}

// Run attaches the pattern subscription and returns the handle; the
// caller closes it on shutdown.
func (b *Bridge) Run(ctx context.Context) (events.Subscription, error) {
	return b.subscriber.SubscribePattern(ctx, "channel:*", func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
