package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/idx"
)

// CustomerService manages billable clients. Deleting a customer cascades to
// its billings at the store layer.
type CustomerService struct {
	Store store.Store
	Audit *AuditService
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.Store.Customers().List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	return s.Store.Customers().GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, actor domain.Identity, name, email string) (domain.Customer, error) {
	c := domain.Customer{
		ID:        idx.New().String(),
		Name:      name,
		Email:     domain.NormalizeEmail(email),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Customers().Create(ctx, c); err != nil {
		return domain.Customer{}, err
	}

	s.Audit.Record(ctx, actor, domain.AuditCreate, domain.ResourceCustomer, c.ID,
		fmt.Sprintf("Cliente %s cadastrado", c.Name))

	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, actor domain.Identity, id string, upd domain.CustomerUpdate) (domain.Customer, error) {
	if upd.Email != nil {
		normalized := domain.NormalizeEmail(*upd.Email)
		upd.Email = &normalized
	}

	if err := s.Store.Customers().Update(ctx, id, upd); err != nil {
		return domain.Customer{}, err
	}

	c, err := s.Store.Customers().GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	s.Audit.Record(ctx, actor, domain.AuditUpdate, domain.ResourceCustomer, id,
		fmt.Sprintf("Cliente %s atualizado", c.Name))

	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	c, err := s.Store.Customers().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Store.Customers().Delete(ctx, id); err != nil {
		return err
	}

	s.Audit.Record(ctx, actor, domain.AuditDelete, domain.ResourceCustomer, id,
		fmt.Sprintf("Cliente %s removido", c.Name))

	return nil
}
