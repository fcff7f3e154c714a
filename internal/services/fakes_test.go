package services_test

import (
	"context"
	"sync"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"

	"github.com/google/uuid"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	messages  []domain.Message
	getErr    error
	updateErr error
}

func newFakeOrderRepo(orders ...domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *domain.Order, initial *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	if initial != nil {
		r.messages = append(r.messages, *initial)
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.Order{}, r.getErr
	}
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, gigmarket_errors.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListByParty(ctx context.Context, userID uuid.UUID, party repository.Party) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if (party == repository.PartyBuyer && o.BuyerID == userID) ||
			(party == repository.PartySeller && o.SellerID == userID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, expected, next domain.Status, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.orders[orderID]
	if !ok {
		return gigmarket_errors.ErrNotFound
	}
	if o.Status != expected {
		return gigmarket_errors.ErrInvalidTransition
	}
	o.Status = next
	r.orders[orderID] = o
	if msg != nil {
		r.messages = append(r.messages, *msg)
	}
	return nil
}

func (r *fakeOrderRepo) recordedMessages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []domain.Message
	createErr error
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	created   []domain.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		if r.created[i].UserID == userID {
			out = append(out, r.created[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID, read bool) (domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.created {
		if n.ID == id && n.UserID == userID {
			r.created[i].Read = read
			return r.created[i], nil
		}
	}
	return domain.Notification{}, gigmarket_errors.ErrNotFound
}

func (r *fakeNotificationRepo) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.created))
	copy(out, r.created)
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, gigmarket_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

type fakeGigRepo struct {
	mu   sync.Mutex
	gigs map[uuid.UUID]domain.Gig
}

func newFakeGigRepo(gigs ...domain.Gig) *fakeGigRepo {
	r := &fakeGigRepo{gigs: make(map[uuid.UUID]domain.Gig)}
	for _, g := range gigs {
		r.gigs[g.ID] = g
	}
	return r
}

func (r *fakeGigRepo) Create(ctx context.Context, g *domain.Gig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gigs[g.ID] = *g
	return nil
}

func (r *fakeGigRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Gig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gigs[id]
	if !ok {
		return domain.Gig{}, gigmarket_errors.ErrNotFound
	}
	return g, nil
}

func (r *fakeGigRepo) List(ctx context.Context, category string, limit int) ([]domain.Gig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Gig
	for _, g := range r.gigs {
		if category == "" || g.Category == category {
			out = append(out, g)
		}
	}
	return out, nil
}

type publishedEvent struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{channel: channel, payload: payload})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
