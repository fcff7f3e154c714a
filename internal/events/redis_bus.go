package events

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"gigmarket/pkg/logger"
)

// RedisBus implements Bus over Redis Pub/Sub. Delivery is at-least-once
// per connected subscriber with no ordering guarantee across publishers;
// consumers are expected to deduplicate and sort by timestamps.
type RedisBus struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisBus(client *redis.Client, log *logger.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error) {
	ps := b.client.Subscribe(ctx, channel)
	return b.attach(ctx, ps, handler)
}

func (b *RedisBus) SubscribePattern(ctx context.Context, pattern string, handler Handler) (Subscription, error) {
	ps := b.client.PSubscribe(ctx, pattern)
	return b.attach(ctx, ps, handler)
}

// attach confirms the subscription, then pumps messages to the handler
// until the subscription is closed or ctx is cancelled.
func (b *RedisBus) attach(ctx context.Context, ps *redis.PubSub, handler Handler) (Subscription, error) {
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	sub := &redisSubscription{ps: ps, done: make(chan struct{})}

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	go func() {
		for msg := range ps.Channel() {
			handler(msg.Channel, []byte(msg.Payload))
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	once sync.Once
	done chan struct{}
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
