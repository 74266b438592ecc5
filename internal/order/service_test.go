package order

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopease/shopease-backend/internal/address"
	"github.com/shopease/shopease-backend/internal/cart"
	"github.com/shopease/shopease-backend/internal/product"
	"github.com/shopease/shopease-backend/internal/user"
)

const buyerID = 7

type recordingNotifier struct {
	confirmations []string
	cancellations []string
	fail          bool
}

func (n *recordingNotifier) SendOrderConfirmation(email, name string, o Order) error {
	if n.fail {
		return fmt.Errorf("smtp unreachable")
	}
	n.confirmations = append(n.confirmations, o.OrderNumber)
	return nil
}

func (n *recordingNotifier) SendOrderCancellation(email, name string, o Order) error {
	if n.fail {
		return fmt.Errorf("smtp unreachable")
	}
	n.cancellations = append(n.cancellations, o.OrderNumber)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *InMemoryRepository
	catalog  *product.InMemoryRepository
	carts    *cart.InMemoryRepository
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Wireless Mouse", Price: 100, StockQuantity: 5, IsActive: true},
		{ID: 2, Name: "Mechanical Keyboard", Price: 249.50, StockQuantity: 10, IsActive: true},
		{ID: 3, Name: "Retired Webcam", Price: 80, StockQuantity: 4, IsActive: false},
	})
	addresses := address.NewInMemoryRepository([]address.Address{
		{AddressID: 1, UserID: buyerID, FullName: "Asha Rao", Phone: "9999988888", AddressLine1: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001", Country: "India"},
		{AddressID: 2, UserID: 99, FullName: "Someone Else", AddressLine1: "1 Other St", City: "Pune", State: "Maharashtra", Pincode: "411001", Country: "India"},
	})
	users := user.NewInMemoryRepository([]user.User{
		{ID: buyerID, Email: "asha@example.com", FirstName: "Asha", LastName: "Rao"},
	})

	repo := NewInMemoryRepository()
	carts := cart.NewInMemoryRepository()
	notifier := &recordingNotifier{}

	svc := NewService(repo, product.NewService(catalog), carts, address.NewService(addresses), user.NewService(users), notifier, nil)
	return &fixture{svc: svc, repo: repo, catalog: catalog, carts: carts, notifier: notifier}
}

func (f *fixture) stock(t *testing.T, productID int) int {
	t.Helper()
	p, err := f.catalog.GetByID(productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func TestCheckoutFromCart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 2}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{
		AddressID: 1,
		Payment:   Payment{Method: MethodCOD},
	})
	require.NoError(t, err)

	assert.True(t, conf.Success)
	assert.NotEmpty(t, conf.OrderNumber)
	assert.NotEmpty(t, conf.TransactionID)
	assert.Equal(t, 240.0, conf.Amount)

	o, err := f.svc.GetByID(buyerID, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus, "cod stays pending until delivery")
	assert.Equal(t, 200.0, o.Subtotal)
	assert.Equal(t, 40.0, o.ShippingCost, "below the free shipping threshold")
	assert.Equal(t, 240.0, o.Total)
	assert.Equal(t, "Asha Rao", o.ShippingAddress.FullName)

	// stock went down and the cart is gone
	assert.Equal(t, 3, f.stock(t, 1))
	items, err := f.carts.Items(buyerID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, []string{conf.OrderNumber}, f.notifier.confirmations)
}

func TestCheckoutNonCODCompletesPayment(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{2: 3}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{
		AddressID: 1,
		Payment:   Payment{Method: MethodUPI, UPIID: "asha@upi"},
	})
	require.NoError(t, err)

	o, err := f.svc.GetByID(buyerID, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, 748.5, o.Subtotal)
	assert.Equal(t, 0.0, o.ShippingCost, "free shipping above the threshold")
	assert.Equal(t, 748.5, o.Total)
}

func TestCheckoutPriceLock(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCard}})
	require.NoError(t, err)

	// catalog price changes after checkout must not touch the order
	p, err := f.catalog.GetByID(1)
	require.NoError(t, err)
	p.Price = 175
	_, err = f.catalog.Update(1, p)
	require.NoError(t, err)

	o, err := f.svc.GetByID(buyerID, conf.OrderID)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 100.0, o.Items[0].Price)
	assert.Equal(t, 100.0, o.Items[0].Subtotal)
}

func TestCheckoutBuyNowKeepsCart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{2: 1}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{
		AddressID: 1,
		Payment:   Payment{Method: MethodCard},
		Items:     []CheckoutItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	items, err := f.carts.Items(buyerID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 1}, items, "buy-now must not clear the cart")
	assert.Equal(t, 4, f.stock(t, 1))
	assert.Equal(t, 10, f.stock(t, 2))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: "cheque"}})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCheckoutForeignAddress(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 2, Payment: Payment{Method: MethodCOD}})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 42, Payment: Payment{Method: MethodCOD}})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestCheckoutInsufficientStockAbortsCleanly(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 6}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// nothing persisted, nothing mutated
	orders, err := f.repo.ListByUser(buyerID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 5, f.stock(t, 1))
	items, err := f.carts.Items(buyerID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 6}, items)
}

func TestCheckoutInactiveProduct(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{3: 1}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCheckoutInvalidBuyNowItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{
		AddressID: 1,
		Payment:   Payment{Method: MethodCOD},
		Items:     []CheckoutItem{{ProductID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidItems)
}

func TestCheckoutSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)
	assert.True(t, conf.Success)
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 2}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, 1))

	o, err := f.svc.Cancel(buyerID, conf.OrderID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, PaymentCancelled, o.PaymentStatus)
	assert.Equal(t, 5, f.stock(t, 1), "every unit the order took comes back")
	assert.Len(t, o.Items, 1, "items are untouched by cancellation")
	assert.Equal(t, []string{conf.OrderNumber}, f.notifier.cancellations)
}

func TestCancelRejectedAfterFulfilmentStarts(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 2}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(conf.OrderID, StatusShipped, "")
	require.NoError(t, err)

	_, err = f.svc.Cancel(buyerID, conf.OrderID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	o, err := f.svc.GetByID(buyerID, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, 3, f.stock(t, 1), "no restore on a rejected cancel")
}

func TestGetByIDHidesForeignOrders(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)

	_, err = f.svc.GetByID(99, conf.OrderID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByUserPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.carts.Save(buyerID, map[int]int{2: 1}))
		_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCard}})
		require.NoError(t, err)
	}

	page, err := f.svc.ListByUser(buyerID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Orders, 2)

	page, err = f.svc.ListByUser(buyerID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)

	// out-of-range page returns an empty slice, not an error
	page, err = f.svc.ListByUser(buyerID, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Orders)

	// bad paging inputs fall back to defaults
	page, err = f.svc.ListByUser(buyerID, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
}

func TestTrackTimeline(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)

	tr, err := f.svc.Track(buyerID, conf.OrderID)
	require.NoError(t, err)
	require.Len(t, tr.Timeline, 6)
	assert.Equal(t, StatusConfirmed, tr.CurrentStatus)
	assert.True(t, tr.Timeline[0].Completed, "placed is always completed")
	assert.True(t, tr.Timeline[1].Completed)
	assert.False(t, tr.Timeline[2].Completed)
	assert.Equal(t, "Order Placed", tr.Timeline[0].Label)

	_, err = f.svc.AdminUpdateStatus(conf.OrderID, StatusOutForDelivery, "")
	require.NoError(t, err)
	tr, err = f.svc.Track(buyerID, conf.OrderID)
	require.NoError(t, err)
	assert.True(t, tr.Timeline[4].Completed)
	assert.False(t, tr.Timeline[5].Completed)
}

func TestTrackCancelledOrder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)
	_, err = f.svc.Cancel(buyerID, conf.OrderID)
	require.NoError(t, err)

	tr, err := f.svc.Track(buyerID, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, tr.CurrentStatus)
	assert.True(t, tr.Timeline[0].Completed)
	for _, m := range tr.Timeline[1:] {
		assert.False(t, m.Completed, "off-timeline status completes nothing past placement")
	}
}

func TestAdminUpdateStatusAppendsNotes(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))

	conf, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)

	o, err := f.svc.AdminUpdateStatus(conf.OrderID, StatusShipped, "left warehouse")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "[shipped] left warehouse", o.Notes)

	o, err = f.svc.AdminUpdateStatus(conf.OrderID, StatusDelivered, "signed by neighbour")
	require.NoError(t, err)
	assert.Equal(t, "[shipped] left warehouse\n\n[delivered] signed by neighbour", o.Notes)

	// admin may also move backwards; no transition rules apply
	o, err = f.svc.AdminUpdateStatus(conf.OrderID, StatusProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)
	assert.Contains(t, o.Notes, "[shipped] left warehouse", "notes survive status-only updates")
}

func TestAdminUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AdminUpdateStatus(1, "teleported", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdminListAll(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))
	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.NoError(t, err)

	all, err := f.svc.AdminListAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInsufficientStockErrorMentionsAvailability(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 6}))

	_, err := f.svc.Checkout(buyerID, CheckoutRequest{AddressID: 1, Payment: Payment{Method: MethodCOD}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Contains(t, err.Error(), "only 5 available")
}
