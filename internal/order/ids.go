package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber builds a human-readable order number embedding the
// order date, e.g. ORD-20240115-A3F2B1C9. The date prefix keeps order
// numbers greppable and sortable by day; the hex suffix makes collisions
// vanishingly unlikely.
func NewOrderNumber(t time.Time) string {
	date := t.UTC().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + date + "-" + suffix
}

// NewTransactionID builds a simulated payment transaction id, e.g.
// TXN-4F2B1C9A3D5E. Distinctly prefixed so it can never be confused
// with an order number.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return "TXN-" + suffix
}
