package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitForCount(t *testing.T, probe func() int, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return probe() == want }, time.Second, 5*time.Millisecond)
}

func TestHubSubscribeAndBroadcast(t *testing.T) {
	hub := startHub(t)
	client := NewClient(nil, uuid.New())

	hub.Register(client)
	waitForCount(t, hub.ClientCount, 1)

	hub.Subscribe(client, "channel:order:abc")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:order:abc") }, 1)
	assert.True(t, client.IsSubscribed("channel:order:abc"))

	hub.Broadcast("channel:order:abc", []byte("payload"))

	select {
	case msg := <-client.Send:
		assert.Equal(t, "payload", string(msg))
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubBroadcastSkipsOtherChannels(t *testing.T) {
	hub := startHub(t)
	client := NewClient(nil, uuid.New())

	hub.Register(client)
	waitForCount(t, hub.ClientCount, 1)
	hub.Subscribe(client, "channel:order:one")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:order:one") }, 1)

	hub.Broadcast("channel:order:two", []byte("noise"))

	select {
	case <-client.Send:
		t.Fatal("received broadcast for a channel we never joined")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := startHub(t)
	client := NewClient(nil, uuid.New())

	hub.Register(client)
	hub.Subscribe(client, "channel:user:u1")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:user:u1") }, 1)

	hub.Unsubscribe(client, "channel:user:u1")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:user:u1") }, 0)
	assert.False(t, client.IsSubscribed("channel:user:u1"))
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := startHub(t)
	client := NewClient(nil, uuid.New())

	hub.Register(client)
	hub.Subscribe(client, "channel:order:x")
	hub.Subscribe(client, "channel:user:y")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:order:x") }, 1)
	waitForCount(t, func() int { return hub.SubscriberCount("channel:user:y") }, 1)

	hub.Unregister(client)
	waitForCount(t, hub.ClientCount, 0)
	assert.Equal(t, 0, hub.SubscriberCount("channel:order:x"))
	assert.Equal(t, 0, hub.SubscriberCount("channel:user:y"))

	// Send channel is closed so the write loop exits.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHubMultipleSubscribersReceiveBroadcast(t *testing.T) {
	hub := startHub(t)
	first := NewClient(nil, uuid.New())
	second := NewClient(nil, uuid.New())

	hub.Register(first)
	hub.Register(second)
	hub.Subscribe(first, "channel:order:shared")
	hub.Subscribe(second, "channel:order:shared")
	waitForCount(t, func() int { return hub.SubscriberCount("channel:order:shared") }, 2)

	hub.Broadcast("channel:order:shared", []byte("both"))

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "both", string(msg))
		case <-time.After(time.Second):
			t.Fatal("subscriber missed broadcast")
		}
	}
}

func TestClientSendMessageDropsWhenFull(t *testing.T) {
	client := NewClient(nil, uuid.New())
	for i := 0; i < sendBuffer; i++ {
		client.SendMessage([]byte("fill"))
	}

	// Must not block once the buffer is full.
	done := make(chan struct{})
	go func() {
		client.SendMessage([]byte("dropped"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendMessage blocked on a full buffer")
	}
}
