package store

import (
	"context"
	"errors"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory,
// sqlite) implement this; services only ever see the interface, so the
// in-memory driver and the durable one are interchangeable. No operation
// spans more than one mutation, so there is no transaction surface here —
// each store call is individually atomic.
type Store interface {
	Users() Users
	Audit() Audit
	Customers() Customers
	Billings() Billings

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetByID returns a user by id. Lookups are case-sensitive on id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail returns a user by normalized email. Callers normalize
	// via domain.NormalizeEmail before calling; the store compares exact.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user. Returns ErrAlreadyExists when the email
	// is taken.
	Create(ctx context.Context, u domain.User) error

	// Update applies a partial update. Returns ErrNotFound for a missing
	// id and ErrAlreadyExists when an email change collides.
	Update(ctx context.Context, id string, upd domain.UserUpdate) error

	// SetLastLogin stamps the last successful login time.
	SetLastLogin(ctx context.Context, id string, t time.Time) error

	// Delete removes a user. Deleting a missing id returns ErrNotFound,
	// which callers treat as a failed delete, not a fault.
	Delete(ctx context.Context, id string) error

	// List returns all users ordered by creation (oldest first).
	List(ctx context.Context) ([]domain.User, error)
}

// Audit is the append-only activity log. Entries arrive fully formed (id
// and timestamp assigned by the service); the store keeps at most its
// configured cap of entries, silently evicting the oldest by insertion
// order. Insertion order, not the timestamp field, decides eviction so
// clock skew can't reorder the trail.
type Audit interface {
	// Append inserts an entry at the head and prunes past the cap.
	Append(ctx context.Context, e domain.AuditEntry) error

	// List returns the window [offset, offset+limit) in most-recent-first
	// order. Out-of-range offsets return an empty slice, not an error.
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)

	// ListByUser filters by acting user id, same ordering.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error)

	// ListByResource filters by resource and, when resourceID is
	// non-empty, by resource id too.
	ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]domain.AuditEntry, error)

	// Search matches query case-insensitively as a substring of userName,
	// action, resource, or details.
	Search(ctx context.Context, query string, limit int) ([]domain.AuditEntry, error)

	// Count returns the number of retained entries.
	Count(ctx context.Context) (int, error)
}

type Customers interface {
	Create(ctx context.Context, c domain.Customer) error
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	Update(ctx context.Context, id string, upd domain.CustomerUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Customer, error)
}

type Billings interface {
	Create(ctx context.Context, b domain.Billing) error
	GetByID(ctx context.Context, id string) (domain.Billing, error)

	// List returns all billings ordered by due date (earliest first),
	// ties broken by id. ListByCustomer filters with the same ordering.
	List(ctx context.Context) ([]domain.Billing, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Billing, error)

	// MarkPaid transitions a billing to paid and stamps the payment time.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}
