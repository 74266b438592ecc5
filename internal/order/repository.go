package order

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrInvalidAddress covers both a missing address and one owned by a
	// different user; the distinction is not leaked to the caller.
	ErrInvalidAddress = errors.New("invalid shipping address")
	ErrEmptyCart      = errors.New("cart is empty")
	// ErrProductUnavailable is wrapped with the product id or name.
	ErrProductUnavailable = errors.New("product is no longer available")
	// ErrInsufficientStock is wrapped with the available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidItems      = errors.New("invalid order items")
	// ErrNotCancellable is wrapped with the current status.
	ErrNotCancellable = errors.New("order cannot be cancelled")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// UpdateFields is the partial update applied by status transitions.
// Orders are never deleted and item/price fields are never touched after
// creation.
type UpdateFields struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Notes         *string
	UpdatedAt     string
}

type Repository interface {
	Create(o Order) (Order, error)
	GetByID(id int) (Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID int) ([]Order, error)
	// ListAll returns every order, newest first (admin listing).
	ListAll() ([]Order, error)
	Update(id int, fields UpdateFields) error
}

// InMemoryRepository is used by tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == 0 {
		o.ID = r.nextID
		r.nextID++
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) Update(id int, fields UpdateFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			if fields.Status != nil {
				r.orders[i].Status = *fields.Status
			}
			if fields.PaymentStatus != nil {
				r.orders[i].PaymentStatus = *fields.PaymentStatus
			}
			if fields.Notes != nil {
				r.orders[i].Notes = *fields.Notes
			}
			if fields.UpdatedAt != "" {
				r.orders[i].UpdatedAt = fields.UpdatedAt
			}
			return nil
		}
	}
	return ErrNotFound
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID > orders[j].ID
	})
}
