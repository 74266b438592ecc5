package product

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(category string) ([]Product, error)
	// ListByIDs batch-fetches products for cart/order enrichment; ids
	// with no matching product are simply absent from the result.
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error

	// DecrementStock subtracts qty from a product's stock, clamped at
	// zero. RestoreStock adds qty back without clamping. The asymmetry
	// is deliberate: a decrement racing a concurrent order may only
	// drain stock to zero, while a cancellation always returns exactly
	// the units it took, even past the pre-order level if restocking
	// happened in between.
	DecrementStock(id, qty int) error
	RestoreStock(id, qty int) error
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(category string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.storage {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DecrementStock(id, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			newStock := r.storage[i].StockQuantity - qty
			if newStock < 0 {
				newStock = 0
			}
			r.storage[i].StockQuantity = newStock
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) RestoreStock(id, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].StockQuantity += qty
			return nil
		}
	}
	return ErrNotFound
}
