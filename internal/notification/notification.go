// Package notification sends order lifecycle emails. Delivery is always
// best-effort: callers log failures and move on, because by the time an
// email matters the order is already durable.
package notification

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/shopease/shopease-backend/internal/config"
	"github.com/shopease/shopease-backend/internal/order"
)

// SMTPService delivers mail through a plain SMTP relay.
type SMTPService struct {
	host     string
	port     string
	username string
	password string
	from     string
	logger   *slog.Logger

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// LogService is the fallback when SMTP is unconfigured: it records what
// would have been sent and always succeeds.
type LogService struct {
	logger *slog.Logger
}

// New returns an SMTP-backed sender when the config carries an SMTP
// host, otherwise a log-only sender.
func New(cfg config.Config, logger *slog.Logger) order.Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SMTPHost == "" {
		return &LogService{logger: logger}
	}
	return &SMTPService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

func (s *SMTPService) SendOrderConfirmation(email, name string, o order.Order) error {
	subject := fmt.Sprintf("Order Confirmed - %s", o.OrderNumber)
	return s.deliver(email, subject, confirmationBody(name, o))
}

func (s *SMTPService) SendOrderCancellation(email, name string, o order.Order) error {
	subject := fmt.Sprintf("Order Cancelled - %s", o.OrderNumber)
	return s.deliver(email, subject, cancellationBody(name, o))
}

func (s *SMTPService) deliver(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient address")
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return s.send(s.host+":"+s.port, auth, s.from, []string{to}, []byte(msg))
}

func (l *LogService) SendOrderConfirmation(email, name string, o order.Order) error {
	l.logger.Info("order confirmation email (smtp not configured)",
		"to", email, "orderNumber", o.OrderNumber, "total", o.Total)
	return nil
}

func (l *LogService) SendOrderCancellation(email, name string, o order.Order) error {
	l.logger.Info("order cancellation email (smtp not configured)",
		"to", email, "orderNumber", o.OrderNumber)
	return nil
}

func confirmationBody(name string, o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order! Here are the details.\n\n", name)
	fmt.Fprintf(&b, "Order number: %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Transaction:  %s\n\n", o.TransactionID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d  %.2f\n", it.ProductName, it.Quantity, it.Subtotal)
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\nShipping: %.2f\nTotal:    %.2f\n", o.Subtotal, o.ShippingCost, o.Total)
	if o.EstimatedDelivery != "" {
		fmt.Fprintf(&b, "\nEstimated delivery: %s\n", o.EstimatedDelivery)
	}
	return b.String()
}

func cancellationBody(name string, o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour order %s has been cancelled.\n", name, o.OrderNumber)
	fmt.Fprintf(&b, "Amount: %.2f\n\n", o.Total)
	b.WriteString("If the payment was completed, the refund will be processed within 5-7 business days.\n")
	return b.String()
}
