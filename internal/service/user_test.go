package service

import (
	"context"
	"testing"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"

	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)

	t.Run("generated initial password", func(t *testing.T) {
		created, password, err := f.users.Create(ctx, admin.Identity(), "Caio Melo", "caio@cobrex.dev", "", domain.RoleSuporte)
		require.NoError(t, err)
		require.Len(t, password, 12)
		require.True(t, created.IsActive)

		// The returned plaintext must actually open the account.
		_, _, err = f.auth.Login(ctx, "caio@cobrex.dev", password)
		require.NoError(t, err)
	})

	t.Run("explicit password respected", func(t *testing.T) {
		_, password, err := f.users.Create(ctx, admin.Identity(), "Davi", "davi@cobrex.dev", "escolhida1", domain.RoleFinanceiro)
		require.NoError(t, err)
		require.Equal(t, "escolhida1", password)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := f.users.Create(ctx, admin.Identity(), "Dup", "caio@cobrex.dev", "", domain.RoleSuporte)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("creation hits the trail", func(t *testing.T) {
		entries, err := f.audit.ListByResource(ctx, domain.ResourceUser, "", 20)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)
	target := f.register(t, "Caio", "caio@cobrex.dev", "s3nh4forte", domain.RoleSuporte)

	t.Run("role change", func(t *testing.T) {
		role := domain.RoleFinanceiro
		got, err := f.users.Update(ctx, admin.Identity(), target.ID, domain.UserUpdate{Role: &role})
		require.NoError(t, err)
		require.Equal(t, domain.RoleFinanceiro, got.Role)
	})

	t.Run("bad role rejected", func(t *testing.T) {
		role := domain.Role("chefe")
		_, err := f.users.Update(ctx, admin.Identity(), target.ID, domain.UserUpdate{Role: &role})
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("email collision", func(t *testing.T) {
		email := "ana@cobrex.dev"
		_, err := f.users.Update(ctx, admin.Identity(), target.ID, domain.UserUpdate{Email: &email})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing user", func(t *testing.T) {
		name := "X"
		_, err := f.users.Update(ctx, admin.Identity(), "missing", domain.UserUpdate{Name: &name})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)
	target := f.register(t, "Caio", "caio@cobrex.dev", "s3nh4forte", domain.RoleSuporte)

	t.Run("self deletion forbidden", func(t *testing.T) {
		err := f.users.Delete(ctx, admin.Identity(), admin.ID)
		require.ErrorIs(t, err, ErrSelfDeletionForbidden)

		// The account must still be there.
		_, err = f.users.Get(ctx, admin.ID)
		require.NoError(t, err)
	})

	t.Run("deleting another account", func(t *testing.T) {
		require.NoError(t, f.users.Delete(ctx, admin.Identity(), target.ID))
		_, err := f.users.Get(ctx, target.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		err := f.users.Delete(ctx, admin.Identity(), "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUserList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)
	f.register(t, "Caio", "caio@cobrex.dev", "s3nh4forte", domain.RoleSuporte)

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}
