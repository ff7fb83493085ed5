package memory

import (
	"context"
	"sync"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
)

type customersRepo struct {
	mu        sync.RWMutex
	customers []domain.Customer
}

func (r *customersRepo) Create(ctx context.Context, c domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.customers {
		if existing.ID == c.ID {
			return store.ErrAlreadyExists
		}
	}
	r.customers = append(r.customers, c)
	return nil
}

func (r *customersRepo) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, store.ErrNotFound
}

func (r *customersRepo) Update(ctx context.Context, id string, upd domain.CustomerUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			if upd.Name != nil {
				r.customers[i].Name = *upd.Name
			}
			if upd.Email != nil {
				r.customers[i].Email = *upd.Email
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *customersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.customers {
		if c.ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *customersRepo) List(ctx context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}
