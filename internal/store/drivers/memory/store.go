// Package memory is the process-lifetime store driver. Accounts and the
// audit trail live in in-memory collections and are lost on restart, which
// keeps development and tests dependency-free. The sqlite driver provides
// durability behind the same interfaces.
package memory

import (
	"context"

	"github.com/cobrexhq/cobrex/internal/store"
)

// DefaultAuditCap is the number of audit entries retained before FIFO
// eviction kicks in.
const DefaultAuditCap = 1000

type Store struct {
	users     *usersRepo
	audit     *auditRepo
	customers *customersRepo
	billings  *billingsRepo
}

// NewStore builds an empty in-memory store. auditCap <= 0 selects
// DefaultAuditCap.
func NewStore(auditCap int) *Store {
	if auditCap <= 0 {
		auditCap = DefaultAuditCap
	}
	return &Store{
		users:     &usersRepo{},
		audit:     &auditRepo{cap: auditCap},
		customers: &customersRepo{},
		billings:  &billingsRepo{},
	}
}

func (s *Store) Users() store.Users         { return s.users }
func (s *Store) Audit() store.Audit         { return s.audit }
func (s *Store) Customers() store.Customers { return s.customers }
func (s *Store) Billings() store.Billings   { return s.billings }

func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }
