package domain

import (
	"strings"
	"time"
)

// User is a staff account. PasswordHash never leaves the store layer: every
// outward projection goes through Identity or Redacted.
type User struct {
	ID           string
	Name         string
	Email        string // normalized: trimmed, lowercased
	PasswordHash string // bcrypt encoded
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Identity is the token payload / session claim: a projection of User
// without the secret and activity fields.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity projects the account into its claim form.
func (u User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Redacted is a User safe to list over the API: everything but the hash.
type Redacted struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Redact strips the password hash for listing.
func (u User) Redact() Redacted {
	return Redacted{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// NormalizeEmail is the single place email case folding happens. Both
// insertion and lookup go through it so comparisons stay consistent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserUpdate is a partial update to a user record. Nil fields are left
// untouched. ID and password are deliberately not updatable through this
// path; password changes go through their own flow.
type UserUpdate struct {
	Name     *string
	Email    *string
	Role     *Role
	IsActive *bool
}
