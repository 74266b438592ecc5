package order

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopease/shopease-backend/internal/address"
	"github.com/shopease/shopease-backend/internal/pricing"
	"github.com/shopease/shopease-backend/internal/product"
	"github.com/shopease/shopease-backend/internal/user"
)

// Collaborator surfaces the checkout pipeline consumes. Kept small so
// tests can stand in simple fakes.

type Catalog interface {
	GetByID(id int) (product.Product, error)
	DecrementStock(id, qty int) error
	RestoreStock(id, qty int) error
}

type CartStore interface {
	Items(userID int) (map[int]int, error)
	Clear(userID int) error
}

type AddressBook interface {
	GetByID(addressID int) (address.Address, error)
}

type UserDirectory interface {
	GetByID(id int) (user.User, error)
}

// Notifier sends order emails. Failures are never allowed to fail the
// operation that triggered them.
type Notifier interface {
	SendOrderConfirmation(email, name string, o Order) error
	SendOrderCancellation(email, name string, o Order) error
}

type Service struct {
	repo      Repository
	catalog   Catalog
	carts     CartStore
	addresses AddressBook
	users     UserDirectory
	notifier  Notifier
	logger    *slog.Logger
}

func NewService(repo Repository, catalog Catalog, carts CartStore, addresses AddressBook, users UserDirectory, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		carts:     carts,
		addresses: addresses,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

type CheckoutItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Payment struct {
	Method       PaymentMethod `json:"method"`
	CardLastFour string        `json:"cardLastFour,omitempty"`
	UPIID        string        `json:"upiId,omitempty"`
}

// CheckoutRequest carries the checkout input. Items is the optional
// "buy now" override; when empty the user's cart is the source.
type CheckoutRequest struct {
	AddressID int            `json:"addressId"`
	Payment   Payment        `json:"payment"`
	Notes     string         `json:"notes,omitempty"`
	Items     []CheckoutItem `json:"items,omitempty"`
}

type PaymentConfirmation struct {
	Success       bool          `json:"success"`
	OrderID       int           `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	TransactionID string        `json:"transactionId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Amount        float64       `json:"amount"`
	Message       string        `json:"message"`
}

const deliveryEstimateDays = 7

// Checkout turns a cart (or explicit buy-now items) into an immutable,
// price-locked order.
//
// Everything before the order insert is pure validation and aborts with
// nothing persisted. Once the order row exists, the remaining steps
// (stock decrement, cart clear, confirmation email) are best-effort:
// their failures are logged and swallowed because the order itself is
// already durable, and there is no cross-table transaction to lean on.
func (s *Service) Checkout(userID int, req CheckoutRequest) (PaymentConfirmation, error) {
	if !req.Payment.Method.Valid() {
		return PaymentConfirmation{}, ErrInvalidPayment
	}

	// shipping address must exist and belong to the buyer
	addr, err := s.addresses.GetByID(req.AddressID)
	if err != nil || addr.UserID != userID {
		return PaymentConfirmation{}, ErrInvalidAddress
	}

	// source lines: explicit buy-now items bypass the cart
	lines, fromCart, err := s.resolveLines(userID, req.Items)
	if err != nil {
		return PaymentConfirmation{}, err
	}

	// validate availability and lock prices; from here on concurrent
	// catalog price changes cannot touch this order
	items, err := s.buildItems(lines)
	if err != nil {
		return PaymentConfirmation{}, err
	}
	if len(items) == 0 {
		// unreachable while buildItems errors per line; guards against
		// a silent-filtering regression
		return PaymentConfirmation{}, ErrEmptyCart
	}

	var subtotal float64
	for _, it := range items {
		subtotal += it.Subtotal
	}
	subtotal = pricing.Round2(subtotal)
	shipping, total := pricing.Totals(subtotal)

	now := time.Now().UTC()
	paymentStatus := PaymentCompleted
	if req.Payment.Method == MethodCOD {
		paymentStatus = PaymentPending
	}

	o := Order{
		OrderNumber:       NewOrderNumber(now),
		UserID:            userID,
		Items:             items,
		ShippingAddress:   snapshotAddress(addr),
		Status:            StatusConfirmed, // payment is simulated, so no separate pending phase
		PaymentMethod:     req.Payment.Method,
		PaymentStatus:     paymentStatus,
		TransactionID:     NewTransactionID(),
		Subtotal:          subtotal,
		ShippingCost:      shipping,
		Discount:          0,
		Total:             total,
		Notes:             req.Notes,
		EstimatedDelivery: now.AddDate(0, 0, deliveryEstimateDays).Format("2006-01-02"),
		CreatedAt:         now.Format(time.RFC3339),
		UpdatedAt:         now.Format(time.RFC3339),
	}

	created, err := s.repo.Create(o)
	if err != nil {
		return PaymentConfirmation{}, err
	}

	// commit point passed: everything below is best-effort
	for _, it := range created.Items {
		if err := s.catalog.DecrementStock(it.ProductID, it.Quantity); err != nil {
			s.logger.Error("stock decrement failed", "orderId", created.ID, "productId", it.ProductID, "error", err)
		}
	}

	if fromCart {
		if err := s.carts.Clear(userID); err != nil {
			s.logger.Error("cart clear failed after checkout", "orderId", created.ID, "userId", userID, "error", err)
		}
	}

	s.notify(created, s.notifier.SendOrderConfirmation)

	message := "Order placed successfully!"
	if paymentStatus == PaymentPending {
		message = "Order placed. Payment will be collected on delivery."
	}
	return PaymentConfirmation{
		Success:       true,
		OrderID:       created.ID,
		OrderNumber:   created.OrderNumber,
		TransactionID: created.TransactionID,
		PaymentMethod: created.PaymentMethod,
		Amount:        created.Total,
		Message:       message,
	}, nil
}

func (s *Service) resolveLines(userID int, explicit []CheckoutItem) ([]CheckoutItem, bool, error) {
	if len(explicit) > 0 {
		for _, it := range explicit {
			if it.ProductID <= 0 || it.Quantity < 1 {
				return nil, false, fmt.Errorf("%w: each item needs a productId and a quantity of at least 1", ErrInvalidItems)
			}
		}
		return explicit, false, nil
	}

	cartItems, err := s.carts.Items(userID)
	if err != nil {
		return nil, false, err
	}
	if len(cartItems) == 0 {
		return nil, false, ErrEmptyCart
	}

	lines := make([]CheckoutItem, 0, len(cartItems))
	for pid, qty := range cartItems {
		lines = append(lines, CheckoutItem{ProductID: pid, Quantity: qty})
	}
	return lines, true, nil
}

// buildItems re-fetches every product, validates availability and stock,
// and captures the current price into the snapshot. This is the price
// lock.
func (s *Service) buildItems(lines []CheckoutItem) ([]Item, error) {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		p, err := s.catalog.GetByID(line.ProductID)
		if err != nil || !p.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
		}
		if p.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("%w for %s: only %d available", ErrInsufficientStock, p.Name, p.StockQuantity)
		}

		items = append(items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Thumbnail:   p.Thumbnail,
			Price:       p.Price,
			Quantity:    line.Quantity,
			Subtotal:    pricing.Round2(p.Price * float64(line.Quantity)),
		})
	}
	return items, nil
}

func snapshotAddress(a address.Address) ShippingAddress {
	return ShippingAddress{
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		Landmark:     a.Landmark,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Country:      a.Country,
	}
}

// OrderList is a page of a user's order history, newest first.
type OrderList struct {
	Orders  []Order `json:"orders"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
}

func (s *Service) ListByUser(userID, page, perPage int) (OrderList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	orders, err := s.repo.ListByUser(userID)
	if err != nil {
		return OrderList{}, err
	}

	start := (page - 1) * perPage
	if start > len(orders) {
		start = len(orders)
	}
	end := start + perPage
	if end > len(orders) {
		end = len(orders)
	}

	return OrderList{
		Orders:  orders[start:end],
		Total:   len(orders),
		Page:    page,
		PerPage: perPage,
	}, nil
}

// GetByID returns the order only to its owner. A foreign order reads as
// not found so existence is never leaked.
func (s *Service) GetByID(userID, orderID int) (Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// Cancel is the user-initiated cancellation: legal only before
// fulfilment starts, and it compensates by restoring the exact
// quantities the order took out of stock.
func (s *Service) Cancel(userID, orderID int) (Order, error) {
	o, err := s.GetByID(userID, orderID)
	if err != nil {
		return Order{}, err
	}
	if !o.Cancellable() {
		return Order{}, fmt.Errorf("%w: status is %s", ErrNotCancellable, o.Status)
	}

	status := StatusCancelled
	payStatus := PaymentCancelled
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.repo.Update(o.ID, UpdateFields{Status: &status, PaymentStatus: &payStatus, UpdatedAt: now}); err != nil {
		return Order{}, err
	}
	o.Status = status
	o.PaymentStatus = payStatus
	o.UpdatedAt = now

	// unclamped restore: every unit the order removed comes back
	for _, it := range o.Items {
		if err := s.catalog.RestoreStock(it.ProductID, it.Quantity); err != nil {
			s.logger.Error("stock restore failed", "orderId", o.ID, "productId", it.ProductID, "error", err)
		}
	}

	s.notify(o, s.notifier.SendOrderCancellation)
	return o, nil
}

// Track projects the order status onto the forward milestone timeline.
func (s *Service) Track(userID, orderID int) (Tracking, error) {
	o, err := s.GetByID(userID, orderID)
	if err != nil {
		return Tracking{}, err
	}

	return Tracking{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		CurrentStatus:     o.Status,
		EstimatedDelivery: o.EstimatedDelivery,
		Timeline:          buildTimeline(o),
	}, nil
}

// AdminListAll returns every order, newest first.
func (s *Service) AdminListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// AdminUpdateStatus sets any status from any status: transition legality
// is deliberately not enforced on the admin path, matching the strict
// gate on user cancellation only. Notes are append-only, tagged with the
// status they were written under.
func (s *Service) AdminUpdateStatus(orderID int, status Status, note string) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}

	fields := UpdateFields{Status: &status, UpdatedAt: time.Now().UTC().Format(time.RFC3339)}
	if note != "" {
		tagged := fmt.Sprintf("[%s] %s", status, note)
		if o.Notes != "" {
			tagged = o.Notes + "\n\n" + tagged
		}
		fields.Notes = &tagged
	}

	if err := s.repo.Update(orderID, fields); err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(orderID)
}

// notify resolves the buyer and fires the email, logging instead of
// propagating any failure.
func (s *Service) notify(o Order, send func(email, name string, o Order) error) {
	u, err := s.users.GetByID(o.UserID)
	if err != nil {
		s.logger.Error("could not load user for order notification", "orderId", o.ID, "userId", o.UserID, "error", err)
		return
	}
	if err := send(u.Email, u.FullName(), o); err != nil {
		s.logger.Error("order notification failed", "orderId", o.ID, "error", err)
	}
}
