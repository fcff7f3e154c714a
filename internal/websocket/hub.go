package websocket

import (
	"context"
	"sync"
)

// subscriptionRequest asks the hub to attach or detach a client from a
// channel.
type subscriptionRequest struct {
	client    *Client
	channel   string
	subscribe bool
}

// Hub tracks connected clients and which event channels each one
// watches. Mutations flow through the Run loop; Broadcast only reads.
type Hub struct {
	mu sync.RWMutex

	clients  map[string]*Client
	channels map[string]map[*Client]struct{}

	register     chan *Client
	unregister   chan *Client
	subscription chan subscriptionRequest
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		channels:     make(map[string]map[*Client]struct{}),
		register:     make(chan *Client, 256),
		unregister:   make(chan *Client, 256),
		subscription: make(chan subscriptionRequest, 512),
	}
}

// Run drives the hub's event loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case req := <-h.subscription:
			if req.subscribe {
				h.subscribeToChannel(req.client, req.channel)
			} else {
				h.unsubscribeFromChannel(req.client, req.channel)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Subscribe(client *Client, channel string) {
	h.subscription <- subscriptionRequest{client: client, channel: channel, subscribe: true}
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.subscription <- subscriptionRequest{client: client, channel: channel, subscribe: false}
}

// Broadcast fans payload out to every client watching channel.
func (h *Hub) Broadcast(channel string, payload []byte) {
	h.mu.RLock()
	for c := range h.channels[channel] {
		c.SendMessage(payload)
	}
	h.mu.RUnlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, channel := range client.Channels() {
		if subscribers, ok := h.channels[channel]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.channels, channel)
			}
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) subscribeToChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]struct{})
	}
	h.channels[channel][client] = struct{}{}
	client.addChannel(channel)
}

func (h *Hub) unsubscribeFromChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers, ok := h.channels[channel]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.channels, channel)
		}
	}
	client.removeChannel(channel)
}
