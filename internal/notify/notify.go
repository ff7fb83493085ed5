// Package notify delivers billing reminders to customers. The concrete
// channel (email, WhatsApp, SMS) is behind the Notifier interface so the
// billing service does not care how a reminder leaves the system.
package notify

import (
	"context"
	"log/slog"

	"github.com/cobrexhq/cobrex/internal/domain"
)

// Notifier sends a payment reminder for a billing.
type Notifier interface {
	SendReminder(ctx context.Context, customer domain.Customer, billing domain.Billing) error
}

// LogNotifier writes reminders to the structured log instead of an external
// channel. It is the default in development and in deployments that have not
// wired a real provider yet.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) SendReminder(ctx context.Context, customer domain.Customer, billing domain.Billing) error {
	n.Logger.InfoContext(ctx, "billing reminder sent",
		"customer_id", customer.ID,
		"customer_email", customer.Email,
		"billing_id", billing.ID,
		"amount_cents", billing.AmountCents,
		"due_date", billing.DueDate,
	)
	return nil
}
