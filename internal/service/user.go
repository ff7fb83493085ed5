package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/cryptox"
	"github.com/cobrexhq/cobrex/pkg/idx"
)

// ErrSelfDeletionForbidden guards the last-admin lockout: an account cannot
// delete itself, no matter its role.
var ErrSelfDeletionForbidden = errors.New("self_deletion_forbidden")

// UserService is the back-office account administration surface. The actor
// on every mutation is the authenticated caller; it is stamped on the audit
// trail and checked by the self-deletion guard.
type UserService struct {
	Store store.Store
	Audit *AuditService
}

// List returns all accounts, hash redacted.
func (s *UserService) List(ctx context.Context) ([]domain.Redacted, error) {
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Redacted, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redact())
	}
	return out, nil
}

// Get returns one account, hash redacted.
func (s *UserService) Get(ctx context.Context, id string) (domain.Redacted, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return domain.Redacted{}, err
	}
	return u.Redact(), nil
}

// Create provisions an account on behalf of an operator. When password is
// empty a random initial one is generated; either way the plaintext is
// returned exactly once so the operator can hand it over, and is never
// stored or logged.
func (s *UserService) Create(ctx context.Context, actor domain.Identity, name, email, password string, role domain.Role) (domain.Redacted, string, error) {
	if !role.Valid() {
		return domain.Redacted{}, "", ErrInvalidRole
	}

	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return domain.Redacted{}, "", err
		}
		password = generated
	} else if len(password) < MinPasswordLength {
		return domain.Redacted{}, "", ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Redacted{}, "", err
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
			return domain.Redacted{}, "", ErrEmailTaken
		}
		return domain.Redacted{}, "", err
	}

	s.Audit.Record(ctx, actor, domain.AuditCreate, domain.ResourceUser, u.ID,
		fmt.Sprintf("Usuário %s criado com perfil %s", u.Name, u.Role))

	return u.Redact(), password, nil
}

// Update applies a partial update. Email changes are re-normalized; role
// changes are validated against the known set.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, upd domain.UserUpdate) (domain.Redacted, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return domain.Redacted{}, ErrInvalidRole
	}
	if upd.Email != nil {
		normalized := domain.NormalizeEmail(*upd.Email)
		upd.Email = &normalized
	}

	if err := s.Store.Users().Update(ctx, id, upd); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Redacted{}, ErrEmailTaken
		}
		return domain.Redacted{}, err
	}

	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return domain.Redacted{}, err
	}

	s.Audit.Record(ctx, actor, domain.AuditUpdate, domain.ResourceUser, id,
		fmt.Sprintf("Usuário %s atualizado", u.Name))

	return u.Redact(), nil
}

// Delete removes an account. The actor can never delete itself; removing
// your own account mid-session would orphan the request and, for the last
// admin, brick the tenant.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if actor.ID == id {
		return ErrSelfDeletionForbidden
	}

	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Store.Users().Delete(ctx, id); err != nil {
		return err
	}

	s.Audit.Record(ctx, actor, domain.AuditDelete, domain.ResourceUser, id,
		fmt.Sprintf("Usuário %s removido", u.Name))

	return nil
}

// ToggleActive flips an account between active and deactivated. Deactivation
// blocks new logins only: outstanding tokens keep working until expiry.
func (s *UserService) ToggleActive(ctx context.Context, actor domain.Identity, id string) (domain.Redacted, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return domain.Redacted{}, err
	}

	next := !u.IsActive
	if err := s.Store.Users().Update(ctx, id, domain.UserUpdate{IsActive: &next}); err != nil {
		return domain.Redacted{}, err
	}
	u.IsActive = next

	state := "desativado"
	if next {
		state = "reativado"
	}
	s.Audit.Record(ctx, actor, domain.AuditUpdate, domain.ResourceUser, id,
		fmt.Sprintf("Usuário %s %s", u.Name, state))

	return u.Redact(), nil
}
