package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gigmarket/internal/events"
	"gigmarket/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	mu       sync.Mutex
	channels []string
	payloads []string
}

func (c *capture) handler(channel string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = append(c.channels, channel)
	c.payloads = append(c.payloads, string(payload))
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

func (c *capture) waitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages, got %d", n, c.count())
}

func newTestBus(t *testing.T) *events.RedisBus {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return events.NewRedisBus(client, logger.NewNop())
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	channel := events.OrderChannel(uuid.New())

	var got capture
	sub, err := bus.Subscribe(ctx, channel, got.handler)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish(ctx, channel, []byte(`{"hello":"world"}`)))

	got.waitFor(t, 1)
	assert.Equal(t, channel, got.channels[0])
	assert.JSONEq(t, `{"hello":"world"}`, got.payloads[0])
}

func TestSubscribeDoesNotReceiveOtherChannels(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	mine := events.OrderChannel(uuid.New())
	other := events.OrderChannel(uuid.New())

	var got capture
	sub, err := bus.Subscribe(ctx, mine, got.handler)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish(ctx, other, []byte("nope")))
	require.NoError(t, bus.Publish(ctx, mine, []byte("yes")))

	got.waitFor(t, 1)
	assert.Equal(t, []string{"yes"}, got.payloads)
}

func TestSubscribePatternSpansChannels(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	var got capture
	sub, err := bus.SubscribePattern(ctx, "channel:*", got.handler)
	require.NoError(t, err)
	defer sub.Close()

	orderCh := events.OrderChannel(uuid.New())
	userCh := events.UserChannel(uuid.New())
	require.NoError(t, bus.Publish(ctx, orderCh, []byte("a")))
	require.NoError(t, bus.Publish(ctx, userCh, []byte("b")))

	got.waitFor(t, 2)
	assert.ElementsMatch(t, []string{orderCh, userCh}, got.channels)
}

func TestClosedSubscriptionStopsDelivery(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	channel := events.UserChannel(uuid.New())

	var got capture
	sub, err := bus.Subscribe(ctx, channel, got.handler)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, channel, []byte("before")))
	got.waitFor(t, 1)

	require.NoError(t, sub.Close())
	// Close is idempotent.
	require.NoError(t, sub.Close())

	require.NoError(t, bus.Publish(ctx, channel, []byte("after")))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, got.count())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	orderID := uuid.New()
	payload, err := events.NewEnvelope(events.EventTypeOrderStatusChanged, events.AggregateTypeOrder, orderID, events.StatusChangedPayload{
		OrderID: orderID,
		Status:  "STARTED",
	})
	require.NoError(t, err)
	assert.Contains(t, string(payload), events.EventTypeOrderStatusChanged)
	assert.Contains(t, string(payload), orderID.String())
}
