package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
)

type billingsRepo struct {
	mu       sync.RWMutex
	billings []domain.Billing
}

func (r *billingsRepo) Create(ctx context.Context, b domain.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.billings {
		if existing.ID == b.ID {
			return store.ErrAlreadyExists
		}
	}
	r.billings = append(r.billings, b)
	return nil
}

func (r *billingsRepo) GetByID(ctx context.Context, id string) (domain.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.billings {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Billing{}, store.ErrNotFound
}

func (r *billingsRepo) List(ctx context.Context) ([]domain.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Billing, len(r.billings))
	copy(out, r.billings)
	sortByDueDate(out)
	return out, nil
}

func (r *billingsRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Billing{}
	for _, b := range r.billings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func sortByDueDate(bs []domain.Billing) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].DueDate.Equal(bs[j].DueDate) {
			return bs[i].DueDate.Before(bs[j].DueDate)
		}
		return bs[i].ID < bs[j].ID
	})
}

func (r *billingsRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.billings {
		if r.billings[i].ID == id {
			ts := paidAt
			r.billings[i].Status = domain.BillingPaid
			r.billings[i].PaidAt = &ts
			return nil
		}
	}
	return store.ErrNotFound
}
