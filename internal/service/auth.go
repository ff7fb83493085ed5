// Package service holds the business rules. Services are thin structs over
// the store interface plus whatever collaborators each flow needs; all
// authorization decisions and audit writes happen here, never in handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/metrics"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/cryptox"
	"github.com/cobrexhq/cobrex/pkg/idx"
	"github.com/cobrexhq/cobrex/pkg/jwtx"
	"github.com/cobrexhq/cobrex/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers every login failure mode: unknown email,
	// wrong password, deactivated account. Collapsing them denies callers an
	// account-enumeration oracle.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrEmailTaken   = errors.New("email_taken")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrWeakPassword = errors.New("weak_password")
)

// MinPasswordLength is the floor for self-chosen passwords.
const MinPasswordLength = 8

// dummyHash is compared against when the email is unknown so that a miss
// costs the same bcrypt work as a wrong password.
var dummyHash = func() string {
	h, err := cryptox.HashPassword("cobrex-timing-pad")
	if err != nil {
		panic(err)
	}
	return h
}()

// AuthService implements login, registration and token verification.
type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Audit    *AuditService
	TokenTTL time.Duration
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultTokenTTL
}

// Login authenticates an email/password pair and returns the account plus a
// signed session token. The token carries the identity projection and is
// valid for TokenTTL; there is no server-side session to revoke.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = domain.NormalizeEmail(email)

	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if !u.IsActive {
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return domain.User{}, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.Signer.Sign(jwtx.NewSessionClaims(u.ID, u.Name, u.Email, string(u.Role), s.tokenTTL(), now))
	if err != nil {
		return domain.User{}, "", fmt.Errorf("sign session token: %w", err)
	}

	// A failed stamp must not fail the login, but it should leave a trace.
	if err := s.Store.Users().SetLastLogin(ctx, u.ID, now); err != nil {
		slogx.FromContext(ctx).Warn("last login stamp failed", "user_id", u.ID, "err", err)
	} else {
		u.LastLoginAt = &now
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.Audit.Record(ctx, u.Identity(), domain.AuditLogin, domain.ResourceAuth, "",
		fmt.Sprintf("Usuário %s autenticado", u.Name))

	return u, token, nil
}

// Register creates a self-registered account and logs the creation. The
// first registered account in a fresh deployment is typically promoted to
// admin via seeding, not through this path.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.Audit.Record(ctx, u.Identity(), domain.AuditCreate, domain.ResourceUser, u.ID,
		fmt.Sprintf("Usuário %s registrado com perfil %s", u.Name, u.Role))

	return u, nil
}

// VerifyToken checks a session token and returns the identity it carries.
// This is pure computation over the token and the shared secret: no store
// lookup, so a deactivated account's outstanding tokens stay valid until
// they expire.
func (s *AuthService) VerifyToken(token string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			metrics.TokenVerifications.WithLabelValues("expired").Inc()
		default:
			metrics.TokenVerifications.WithLabelValues("invalid").Inc()
		}
		return domain.Identity{}, err
	}

	metrics.TokenVerifications.WithLabelValues("valid").Inc()
	return domain.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}, nil
}

// Logout only records the event. Tokens are stateless, so there is nothing
// to invalidate server-side; clients drop the token.
func (s *AuthService) Logout(ctx context.Context, actor domain.Identity) {
	s.Audit.Record(ctx, actor, domain.AuditLogout, domain.ResourceAuth, "",
		fmt.Sprintf("Usuário %s saiu do sistema", actor.Name))
}
