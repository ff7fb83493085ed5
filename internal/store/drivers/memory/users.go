package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/store"
)

// usersRepo keeps accounts in a slice in insertion order, guarded by a
// single mutex. Every operation is atomic under the lock; reads hand back
// copies so callers never alias the backing collection.
type usersRepo struct {
	mu    sync.RWMutex
	users []domain.User
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email || existing.ID == u.ID {
			return store.ErrAlreadyExists
		}
	}
	r.users = append(r.users, u)
	return nil
}

func (r *usersRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, u := range r.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}

	if upd.Email != nil {
		for i, u := range r.users {
			if i != idx && u.Email == *upd.Email {
				return store.ErrAlreadyExists
			}
		}
		r.users[idx].Email = *upd.Email
	}
	if upd.Name != nil {
		r.users[idx].Name = *upd.Name
	}
	if upd.Role != nil {
		r.users[idx].Role = *upd.Role
	}
	if upd.IsActive != nil {
		r.users[idx].IsActive = *upd.IsActive
	}
	return nil
}

func (r *usersRepo) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			ts := t
			r.users[i].LastLoginAt = &ts
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}
