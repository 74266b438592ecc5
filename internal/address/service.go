package address

import (
	"errors"
	"time"
)

// ServiceInterface is the surface the order package needs for the
// checkout ownership check, plus the CRUD used by the handler.
type ServiceInterface interface {
	ListByUser(userID int) ([]Address, error)
	GetByID(addressID int) (Address, error)
	Add(userID int, a Address) (Address, error)
	Update(userID, addressID int, a Address) (Address, error)
	Delete(userID, addressID int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByUser(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

// GetByID returns the address regardless of owner; callers check UserID
// themselves (checkout treats a mismatch as an invalid address).
func (s *Service) GetByID(addressID int) (Address, error) {
	if addressID <= 0 {
		return Address{}, ErrNotFound
	}
	return s.repo.GetByID(addressID)
}

func (s *Service) Add(userID int, a Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	a.UserID = userID
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Country == "" {
		a.Country = "India"
	}
	return s.repo.Create(a)
}

func (s *Service) Update(userID, addressID int, a Address) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}

	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if a.Country == "" {
		a.Country = "India"
	}
	return s.repo.Update(userID, addressID, a)
}

func (s *Service) Delete(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(userID, addressID)
}

func validate(a Address) error {
	if a.FullName == "" || a.Phone == "" || a.AddressLine1 == "" || a.City == "" || a.State == "" || a.Pincode == "" {
		return errors.New("fullName, phone, addressLine1, city, state and pincode are required")
	}
	return nil
}
