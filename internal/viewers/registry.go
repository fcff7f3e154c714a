// Package viewers tracks which users currently have which orders open.
//
// The registry is a best-effort, process-local cache used only to
// suppress redundant notifications. It is not a source of truth: a
// multi-instance deployment would need to back it with a shared cache
// without changing this contract, and losing all entries on restart is
// acceptable.
package viewers

import (
	"sync"

	"github.com/google/uuid"
)

type Registry struct {
	mu     sync.RWMutex
	active map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

// SetActive marks or unmarks orderID as open for userID.
func (r *Registry) SetActive(userID, orderID uuid.UUID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, ok := r.active[userID]
	if !ok {
		if !active {
			return
		}
		orders = make(map[uuid.UUID]struct{})
		r.active[userID] = orders
	}

	if active {
		orders[orderID] = struct{}{}
		return
	}
	delete(orders, orderID)
	if len(orders) == 0 {
		delete(r.active, userID)
	}
}

// IsActive reports whether userID currently has orderID open.
func (r *Registry) IsActive(userID, orderID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[userID][orderID]
	return ok
}
