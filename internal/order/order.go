package order

// Status is the order lifecycle state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
	StatusRefunded       Status = "refunded"
)

// forwardOrder is the canonical happy-path sequence used by tracking.
// Cancelled/returned/refunded sit outside it.
var forwardOrder = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

var validStatuses = map[Status]bool{
	StatusPending:        true,
	StatusConfirmed:      true,
	StatusProcessing:     true,
	StatusShipped:        true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
	StatusReturned:       true,
	StatusRefunded:       true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// rank returns the position in the forward sequence, or -1 for statuses
// outside it.
func (s Status) rank() int {
	for i, st := range forwardOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// PaymentStatus tracks the payment lifecycle separately from the order
// status.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// PaymentMethod is the checkout payment option. Payment is simulated:
// COD stays pending until delivery, everything else completes instantly.
type PaymentMethod string

const (
	MethodCard       PaymentMethod = "card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetBanking PaymentMethod = "net_banking"
	MethodWallet     PaymentMethod = "wallet"
	MethodCOD        PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetBanking, MethodWallet, MethodCOD:
		return true
	}
	return false
}

// Item is an order line snapshot. Name, price and subtotal are copied
// from the catalog at checkout time and never change afterwards.
type Item struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// ShippingAddress is a copy of the chosen address embedded in the order.
// Later edits to the saved address never alter past orders.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

type Order struct {
	ID                int             `json:"orderId"`
	OrderNumber       string          `json:"orderNumber"`
	UserID            int             `json:"userId"`
	Items             []Item          `json:"items"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	Status            Status          `json:"status"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	TransactionID     string          `json:"transactionId"`
	Subtotal          float64         `json:"subtotal"`
	ShippingCost      float64         `json:"shippingCost"`
	Discount          float64         `json:"discount"`
	Total             float64         `json:"total"`
	Notes             string          `json:"notes,omitempty"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

// Cancellable reports whether the user may still cancel. Only orders
// that have not started fulfilment qualify.
func (o Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// Milestone is one step of the tracking timeline.
type Milestone struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Tracking is the read-only projection of an order's status onto the
// forward timeline.
type Tracking struct {
	OrderID           int         `json:"orderId"`
	OrderNumber       string      `json:"orderNumber"`
	CurrentStatus     Status      `json:"currentStatus"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
	Timeline          []Milestone `json:"timeline"`
}

var milestoneLabels = map[Status]string{
	StatusPending:        "Order Placed",
	StatusConfirmed:      "Order Confirmed",
	StatusProcessing:     "Processing",
	StatusShipped:        "Shipped",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Delivered",
}

// buildTimeline marks each forward milestone completed when the current
// status is at or beyond it. "Order Placed" is always completed since
// the order exists. Off-timeline statuses (cancelled, returned,
// refunded) rank below every later milestone, so they yield a timeline
// with only "Order Placed" completed; callers surface the status itself
// through Tracking.CurrentStatus.
func buildTimeline(o Order) []Milestone {
	rank := o.Status.rank()
	timeline := make([]Milestone, 0, len(forwardOrder))
	for i, st := range forwardOrder {
		m := Milestone{
			Status:    st,
			Label:     milestoneLabels[st],
			Completed: i == 0 || (rank >= 0 && rank >= i),
		}
		switch {
		case i == 0:
			m.Timestamp = o.CreatedAt
		case st == StatusConfirmed && m.Completed:
			m.Timestamp = o.UpdatedAt
		}
		timeline = append(timeline, m)
	}
	return timeline
}
