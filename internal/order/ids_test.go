package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	ts := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	n := NewOrderNumber(ts)

	assert.True(t, strings.HasPrefix(n, "ORD-20260830-"), "got %q", n)
	assert.Len(t, n, len("ORD-20260830-")+8)
	assert.Equal(t, strings.ToUpper(n), n)

	// two orders in the same instant still get distinct numbers
	assert.NotEqual(t, n, NewOrderNumber(ts))
}

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN-"), "got %q", id)
	assert.Len(t, id, len("TXN-")+12)
	assert.NotEqual(t, id, NewTransactionID())
}
