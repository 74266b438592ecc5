package cart

import "sync"

// Repository stores the raw cart line map. The order package consumes
// Items and Clear during checkout.
type Repository interface {
	Items(userID int) (map[int]int, error)
	Save(userID int, items map[int]int) error
	Clear(userID int) error
}

// InMemoryRepository is used by tests and by the order service tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]map[int]int)}
}

func (r *InMemoryRepository) Items(userID int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int]int, len(r.carts[userID]))
	for pid, qty := range r.carts[userID] {
		out[pid] = qty
	}
	return out, nil
}

func (r *InMemoryRepository) Save(userID int, items map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make(map[int]int, len(items))
	for pid, qty := range items {
		stored[pid] = qty
	}
	r.carts[userID] = stored
	return nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
