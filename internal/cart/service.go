package cart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopease/shopease-backend/internal/pricing"
	"github.com/shopease/shopease-backend/internal/product"
)

var (
	// ErrProductNotFound covers both missing and inactive products:
	// inactive products are not purchasable and the distinction is not
	// exposed to the client.
	ErrProductNotFound = errors.New("product not found")
	// ErrLineNotFound means the cart has no line for the product.
	ErrLineNotFound = errors.New("item not found in cart")
	// ErrInsufficientStock is wrapped with the available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service implements cart mutation and the live-priced view.
type Service struct {
	repo    Repository
	catalog product.ServiceInterface
}

func NewService(repo Repository, catalog product.ServiceInterface) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// AddItem upserts a line: a new line if the product is absent, otherwise
// the quantity is incremented. The combined quantity is validated against
// current stock.
func (s *Service) AddItem(userID, productID, qty int) (View, error) {
	if qty < 1 {
		return View{}, fmt.Errorf("quantity must be at least 1")
	}

	p, err := s.activeProduct(productID)
	if err != nil {
		return View{}, err
	}

	items, err := s.repo.Items(userID)
	if err != nil {
		return View{}, err
	}

	newQty := items[productID] + qty
	if newQty > p.StockQuantity {
		return View{}, fmt.Errorf("%w: only %d available", ErrInsufficientStock, p.StockQuantity)
	}

	items[productID] = newQty
	if err := s.repo.Save(userID, items); err != nil {
		return View{}, err
	}
	return s.View(userID)
}

// UpdateItem sets a line's quantity. qty=0 removes the line. Updating a
// line that does not exist returns ErrLineNotFound, including for qty=0;
// removal is not treated as idempotent at this layer.
func (s *Service) UpdateItem(userID, productID, qty int) (View, error) {
	if qty < 0 {
		return View{}, fmt.Errorf("quantity must not be negative")
	}

	items, err := s.repo.Items(userID)
	if err != nil {
		return View{}, err
	}
	if _, ok := items[productID]; !ok {
		return View{}, ErrLineNotFound
	}

	if qty == 0 {
		delete(items, productID)
	} else {
		p, err := s.activeProduct(productID)
		if err != nil {
			return View{}, err
		}
		if qty > p.StockQuantity {
			return View{}, fmt.Errorf("%w: only %d available", ErrInsufficientStock, p.StockQuantity)
		}
		items[productID] = qty
	}

	if err := s.repo.Save(userID, items); err != nil {
		return View{}, err
	}
	return s.View(userID)
}

// RemoveItem drops a line entirely; an absent line is ErrLineNotFound.
func (s *Service) RemoveItem(userID, productID int) (View, error) {
	items, err := s.repo.Items(userID)
	if err != nil {
		return View{}, err
	}
	if _, ok := items[productID]; !ok {
		return View{}, ErrLineNotFound
	}

	delete(items, productID)
	if err := s.repo.Save(userID, items); err != nil {
		return View{}, err
	}
	return s.View(userID)
}

// Clear empties the cart. Clearing an empty or absent cart succeeds.
func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}

// View joins each line with live catalog data. Lines whose product is
// missing or inactive are silently dropped from the view; the persisted
// lines are left untouched, so viewing never mutates the cart.
func (s *Service) View(userID int) (View, error) {
	items, err := s.repo.Items(userID)
	if err != nil {
		return View{}, err
	}

	ids := make([]int, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}
	sort.Ints(ids)

	products, err := s.catalog.ListByIDs(ids)
	if err != nil {
		return View{}, err
	}

	// a line whose product is gone or inactive is simply not in the
	// view; the persisted line itself is untouched
	view := View{UserID: userID, Items: make([]ViewItem, 0, len(products))}
	for _, p := range products {
		if !p.IsActive {
			continue
		}

		qty := items[p.ID]
		line := ViewItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Thumbnail:     p.Thumbnail,
			Price:         p.Price,
			Quantity:      qty,
			Subtotal:      pricing.Round2(p.Price * float64(qty)),
			InStock:       p.InStock(),
			StockQuantity: p.StockQuantity,
		}
		view.Items = append(view.Items, line)
		view.ItemCount += qty
		view.Subtotal += line.Subtotal
	}

	view.Subtotal = pricing.Round2(view.Subtotal)
	view.Shipping, view.Total = pricing.Totals(view.Subtotal)
	return view, nil
}

// Summary returns the navbar badge numbers without building a full view.
func (s *Service) Summary(userID int) (Summary, error) {
	items, err := s.repo.Items(userID)
	if err != nil {
		return Summary{}, err
	}

	ids := make([]int, 0, len(items))
	var sum Summary
	for pid, qty := range items {
		ids = append(ids, pid)
		sum.ItemCount += qty
	}

	products, err := s.catalog.ListByIDs(ids)
	if err != nil {
		return Summary{}, err
	}
	for _, p := range products {
		sum.Total += p.Price * float64(items[p.ID])
	}
	sum.Total = pricing.Round2(sum.Total)
	return sum, nil
}

func (s *Service) activeProduct(productID int) (product.Product, error) {
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		if err == product.ErrNotFound {
			return product.Product{}, ErrProductNotFound
		}
		return product.Product{}, err
	}
	if !p.IsActive {
		return product.Product{}, ErrProductNotFound
	}
	return p, nil
}
