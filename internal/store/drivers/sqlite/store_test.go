package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, auditCap int) *Store {
	t.Helper()

	s, err := NewStore(":memory:", auditCap)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testUser(name, email string, role domain.Role) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: "$2a$10$notarealhash",
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUsersCRUD(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	users := s.Users()

	u := testUser("Ana Souza", "ana@cobrex.dev", domain.RoleAdmin)
	require.NoError(t, users.Create(ctx, u))

	t.Run("get by id", func(t *testing.T) {
		got, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.True(t, got.IsActive)
		require.Nil(t, got.LastLoginAt)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "ana@cobrex.dev")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := users.GetByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := testUser("Outra Ana", "ana@cobrex.dev", domain.RoleSuporte)
		require.ErrorIs(t, users.Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("partial update", func(t *testing.T) {
		name := "Ana Lima"
		require.NoError(t, users.Update(ctx, u.ID, domain.UserUpdate{Name: &name}))

		got, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Ana Lima", got.Name)
		require.Equal(t, u.Email, got.Email)
	})

	t.Run("update email collision", func(t *testing.T) {
		other := testUser("Bruno Dias", "bruno@cobrex.dev", domain.RoleFinanceiro)
		require.NoError(t, users.Create(ctx, other))

		email := "ana@cobrex.dev"
		require.ErrorIs(t, users.Update(ctx, other.ID, domain.UserUpdate{Email: &email}), store.ErrAlreadyExists)
	})

	t.Run("update missing id", func(t *testing.T) {
		active := false
		require.ErrorIs(t, users.Update(ctx, "nope", domain.UserUpdate{IsActive: &active}), store.ErrNotFound)
	})

	t.Run("set last login", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, users.SetLastLogin(ctx, u.ID, at))

		got, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
		require.True(t, got.LastLoginAt.Equal(at))
	})

	t.Run("list ordered by creation", func(t *testing.T) {
		all, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, u.ID))
		_, err := users.GetByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, users.Delete(ctx, u.ID), store.ErrNotFound)
	})
}

func appendEntry(t *testing.T, audit store.Audit, userID, userName string, action domain.AuditAction, resource, resourceID, details string) {
	t.Helper()
	require.NoError(t, audit.Append(context.Background(), domain.AuditEntry{
		ID:         idx.New().String(),
		UserID:     userID,
		UserName:   userName,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}))
}

func TestAuditRetentionCap(t *testing.T) {
	const retention = 50
	s := newTestStore(t, retention)
	ctx := context.Background()
	audit := s.Audit()

	for i := 1; i <= retention+10; i++ {
		appendEntry(t, audit, "u1", "Ana", domain.AuditCreate, domain.ResourceUser, "", fmt.Sprintf("entry %d", i))
	}

	n, err := audit.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, retention, n)

	entries, err := audit.List(ctx, retention, 0)
	require.NoError(t, err)
	require.Len(t, entries, retention)
	require.Equal(t, fmt.Sprintf("entry %d", retention+10), entries[0].Details)
	require.Equal(t, "entry 11", entries[len(entries)-1].Details)
}

func TestAuditQueries(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	audit := s.Audit()

	appendEntry(t, audit, "u1", "João Silva", domain.AuditLogin, domain.ResourceAuth, "", "Usuário autenticado")
	appendEntry(t, audit, "u2", "Maria Costa", domain.AuditCreate, domain.ResourceCustomer, "c1", "Cliente criado")
	appendEntry(t, audit, "u1", "João Silva", domain.AuditUpdate, domain.ResourceBilling, "b1", "Cobrança marcada como paga")

	t.Run("list most recent first", func(t *testing.T) {
		entries, err := audit.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		require.Equal(t, domain.AuditUpdate, entries[0].Action)
		require.Equal(t, domain.AuditLogin, entries[2].Action)
	})

	t.Run("paging window", func(t *testing.T) {
		entries, err := audit.List(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, domain.AuditCreate, entries[0].Action)
	})

	t.Run("out of range offset", func(t *testing.T) {
		entries, err := audit.List(ctx, 10, 100)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("by user", func(t *testing.T) {
		entries, err := audit.ListByUser(ctx, "u1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("by resource", func(t *testing.T) {
		entries, err := audit.ListByResource(ctx, domain.ResourceBilling, "", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entries, err = audit.ListByResource(ctx, domain.ResourceCustomer, "c1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entries, err = audit.ListByResource(ctx, domain.ResourceCustomer, "c2", 10)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		entries, err := audit.Search(ctx, "cliente", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entries, err = audit.Search(ctx, "PAGA", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entries, err = audit.Search(ctx, "billing", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})
}

func TestCustomersAndBillings(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	c := domain.Customer{
		ID:        idx.New().String(),
		Name:      "Padaria Central",
		Email:     "contato@padariacentral.com.br",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Customers().Create(ctx, c))

	b := domain.Billing{
		ID:          idx.New().String(),
		CustomerID:  c.ID,
		Description: "Mensalidade agosto",
		AmountCents: 14990,
		DueDate:     time.Now().UTC().Add(72 * time.Hour),
		Status:      domain.BillingPending,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.Billings().Create(ctx, b))

	t.Run("billing orphan rejected", func(t *testing.T) {
		orphan := b
		orphan.ID = idx.New().String()
		orphan.CustomerID = "missing"
		require.Error(t, s.Billings().Create(ctx, orphan))
	})

	t.Run("mark paid", func(t *testing.T) {
		paidAt := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.Billings().MarkPaid(ctx, b.ID, paidAt))

		got, err := s.Billings().GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, domain.BillingPaid, got.Status)
		require.NotNil(t, got.PaidAt)
		require.True(t, got.PaidAt.Equal(paidAt))
	})

	t.Run("list by customer", func(t *testing.T) {
		billings, err := s.Billings().ListByCustomer(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, billings, 1)
	})

	t.Run("customer delete cascades", func(t *testing.T) {
		require.NoError(t, s.Customers().Delete(ctx, c.ID))
		_, err := s.Billings().GetByID(ctx, b.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("customer update", func(t *testing.T) {
		other := domain.Customer{
			ID:        idx.New().String(),
			Name:      "Oficina Dois Irmãos",
			Email:     "oficina@example.com",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, s.Customers().Create(ctx, other))

		name := "Oficina Dois Irmãos LTDA"
		require.NoError(t, s.Customers().Update(ctx, other.ID, domain.CustomerUpdate{Name: &name}))

		got, err := s.Customers().GetByID(ctx, other.ID)
		require.NoError(t, err)
		require.Equal(t, name, got.Name)
	})
}
