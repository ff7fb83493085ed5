package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/metrics"
	"github.com/cobrexhq/cobrex/internal/notify"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/idx"
)

var (
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrAlreadyPaid     = errors.New("already_paid")
	ErrUnknownCustomer = errors.New("unknown_customer")
)

// BillingService manages charges and their payment lifecycle.
type BillingService struct {
	Store    store.Store
	Audit    *AuditService
	Notifier notify.Notifier
}

func (s *BillingService) List(ctx context.Context) ([]domain.Billing, error) {
	return s.Store.Billings().List(ctx)
}

func (s *BillingService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Billing, error) {
	return s.Store.Billings().ListByCustomer(ctx, customerID)
}

func (s *BillingService) Get(ctx context.Context, id string) (domain.Billing, error) {
	return s.Store.Billings().GetByID(ctx, id)
}

// Create issues a new pending charge against an existing customer.
func (s *BillingService) Create(ctx context.Context, actor domain.Identity, customerID, description string, amountCents int64, dueDate time.Time) (domain.Billing, error) {
	if amountCents <= 0 {
		return domain.Billing{}, ErrInvalidAmount
	}

	c, err := s.Store.Customers().GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Billing{}, ErrUnknownCustomer
		}
		return domain.Billing{}, err
	}

	b := domain.Billing{
		ID:          idx.New().String(),
		CustomerID:  c.ID,
		Description: description,
		AmountCents: amountCents,
		DueDate:     dueDate,
		Status:      domain.BillingPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.Billings().Create(ctx, b); err != nil {
		return domain.Billing{}, err
	}

	s.Audit.Record(ctx, actor, domain.AuditCreate, domain.ResourceBilling, b.ID,
		fmt.Sprintf("Cobrança de R$ %.2f criada para %s", float64(amountCents)/100, c.Name))

	return b, nil
}

// Pay marks a billing as paid. Paying an already-paid billing is rejected so
// the trail never records a double settlement.
func (s *BillingService) Pay(ctx context.Context, actor domain.Identity, id string) (domain.Billing, error) {
	b, err := s.Store.Billings().GetByID(ctx, id)
	if err != nil {
		return domain.Billing{}, err
	}
	if b.Status == domain.BillingPaid {
		return domain.Billing{}, ErrAlreadyPaid
	}

	paidAt := time.Now().UTC()
	if err := s.Store.Billings().MarkPaid(ctx, id, paidAt); err != nil {
		return domain.Billing{}, err
	}
	b.Status = domain.BillingPaid
	b.PaidAt = &paidAt

	s.Audit.Record(ctx, actor, domain.AuditUpdate, domain.ResourceBilling, id,
		"Cobrança marcada como paga")

	return b, nil
}

// Remind sends a payment reminder for a pending or overdue billing.
func (s *BillingService) Remind(ctx context.Context, actor domain.Identity, id string) error {
	b, err := s.Store.Billings().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == domain.BillingPaid {
		return ErrAlreadyPaid
	}

	c, err := s.Store.Customers().GetByID(ctx, b.CustomerID)
	if err != nil {
		return err
	}

	if err := s.Notifier.SendReminder(ctx, c, b); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	metrics.RemindersSent.Inc()
	s.Audit.Record(ctx, actor, domain.AuditSend, domain.ResourceNotification, b.ID,
		fmt.Sprintf("Lembrete de pagamento enviado para %s", c.Name))

	return nil
}
