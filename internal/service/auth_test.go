package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/internal/store/drivers/memory"
	"github.com/cobrexhq/cobrex/pkg/jwtx"
	"github.com/cobrexhq/cobrex/pkg/slogx"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store    store.Store
	auth     *AuthService
	users    *UserService
	audit    *AuditService
	customer *CustomerService
	billing  *BillingService
	notifier *fakeNotifier
}

type fakeNotifier struct {
	sent []string // billing ids
	fail error
}

func (f *fakeNotifier) SendReminder(_ context.Context, _ domain.Customer, b domain.Billing) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, b.ID)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.NewStore(0)
	hs, err := jwtx.NewHS256([]byte(testSecret), "cobrex")
	require.NoError(t, err)

	audit := &AuditService{Store: st}
	notifier := &fakeNotifier{}
	return &fixture{
		store:    st,
		audit:    audit,
		auth:     &AuthService{Store: st, Signer: hs, Verifier: hs, Audit: audit},
		users:    &UserService{Store: st, Audit: audit},
		customer: &CustomerService{Store: st, Audit: audit},
		billing:  &BillingService{Store: st, Audit: audit, Notifier: notifier},
		notifier: notifier,
	}
}

func (f *fixture) register(t *testing.T, name, email, password string, role domain.Role) domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), name, email, password, role)
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ana Souza", "Ana@Cobrex.dev", "s3nh4forte", domain.RoleAdmin)

	t.Run("success with case-folded email", func(t *testing.T) {
		u, token, err := f.auth.Login(ctx, "  ANA@cobrex.DEV ", "s3nh4forte")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, "ana@cobrex.dev", u.Email)
		require.NotNil(t, u.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "ana@cobrex.dev", "errada")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "ninguem@cobrex.dev", "s3nh4forte")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("records the login", func(t *testing.T) {
		entries, err := f.audit.ListByResource(ctx, domain.ResourceAuth, "", 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		require.Equal(t, domain.AuditLogin, entries[0].Action)
		require.Equal(t, "Ana Souza", entries[0].UserName)
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)
	target := f.register(t, "Caio", "caio@cobrex.dev", "s3nh4forte", domain.RoleSuporte)

	_, token, err := f.auth.Login(ctx, target.Email, "s3nh4forte")
	require.NoError(t, err)

	_, err = f.users.ToggleActive(ctx, admin.Identity(), target.ID)
	require.NoError(t, err)

	t.Run("new logins rejected", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, target.Email, "s3nh4forte")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("outstanding token still verifies", func(t *testing.T) {
		id, err := f.auth.VerifyToken(token)
		require.NoError(t, err)
		require.Equal(t, target.ID, id.ID)
	})

	t.Run("reactivation restores login", func(t *testing.T) {
		_, err := f.users.ToggleActive(ctx, admin.Identity(), target.ID)
		require.NoError(t, err)
		_, _, err = f.auth.Login(ctx, target.Email, "s3nh4forte")
		require.NoError(t, err)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "Outra", "ANA@cobrex.dev", "s3nh4forte", domain.RoleSuporte)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "X", "x@cobrex.dev", "s3nh4forte", domain.Role("gerente"))
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "X", "x@cobrex.dev", "curta", domain.RoleSuporte)
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "Bia Ramos", "bia@cobrex.dev", "s3nh4forte", domain.RoleFinanceiro)

	_, token, err := f.auth.Login(ctx, u.Email, "s3nh4forte")
	require.NoError(t, err)

	t.Run("token carries the configured issuer", func(t *testing.T) {
		hs, err := jwtx.NewHS256([]byte(testSecret), "cobrex")
		require.NoError(t, err)
		claims, err := hs.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "cobrex", claims.Issuer)
	})

	t.Run("valid token yields identity", func(t *testing.T) {
		id, err := f.auth.VerifyToken(token)
		require.NoError(t, err)
		require.Equal(t, u.ID, id.ID)
		require.Equal(t, "Bia Ramos", id.Name)
		require.Equal(t, domain.RoleFinanceiro, id.Role)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := f.auth.VerifyToken("not.a.token")
		require.Error(t, err)
	})

	t.Run("expired rejected", func(t *testing.T) {
		hs, err := jwtx.NewHS256([]byte(testSecret), "cobrex")
		require.NoError(t, err)
		old, err := hs.Sign(jwtx.NewSessionClaims(u.ID, u.Name, u.Email, string(u.Role),
			jwtx.DefaultTokenTTL, time.Now().Add(-25*time.Hour)))
		require.NoError(t, err)

		_, err = f.auth.VerifyToken(old)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

// stubStore swaps out individual repos on top of a real backing store.
type stubStore struct {
	store.Store

	users store.Users
	audit store.Audit
}

func (s *stubStore) Users() store.Users {
	if s.users != nil {
		return s.users
	}
	return s.Store.Users()
}

func (s *stubStore) Audit() store.Audit {
	if s.audit != nil {
		return s.audit
	}
	return s.Store.Audit()
}

type failingLastLogin struct{ store.Users }

func (failingLastLogin) SetLastLogin(context.Context, string, time.Time) error {
	return errors.New("disk full")
}

type failingAudit struct{ store.Audit }

func (failingAudit) Append(context.Context, domain.AuditEntry) error {
	return errors.New("disk full")
}

func TestLoginSurvivesLastLoginStampFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)

	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	f.auth.Store = &stubStore{Store: f.store, users: failingLastLogin{f.store.Users()}}

	u, token, err := f.auth.Login(ctx, "ana@cobrex.dev", "s3nh4forte")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Nil(t, u.LastLoginAt)
	require.Contains(t, buf.String(), "last login stamp failed")
}

func TestAuditAppendFailureLoggedNotFatal(t *testing.T) {
	st := memory.NewStore(0)
	audit := &AuditService{Store: &stubStore{Store: st, audit: failingAudit{st.Audit()}}}

	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	audit.Record(ctx, domain.Identity{ID: "u1", Name: "Ana"}, domain.AuditLogin, domain.ResourceAuth, "",
		"Usuária Ana autenticada")
	require.Contains(t, buf.String(), "audit append failed")
}

func TestLogoutRecordsTrail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "Ana", "ana@cobrex.dev", "s3nh4forte", domain.RoleAdmin)

	f.auth.Logout(ctx, u.Identity())

	entries, err := f.audit.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Equal(t, domain.AuditLogout, entries[0].Action)
}
