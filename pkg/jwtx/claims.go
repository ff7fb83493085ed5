package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued session token. Tokens are
// not revocable, so this window is also the maximum staleness a deactivated
// account can keep acting with.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the session-token claims. The custom fields are a projection
// of the account record: identity only, never the password hash.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the display name of the authenticated user.
	Name string `json:"name,omitempty"`

	// Email is the normalized login email.
	Email string `json:"email,omitempty"`

	// Role is the user's role name ("admin", "financeiro", "suporte").
	Role string `json:"role,omitempty"`
}

// NewSessionClaims builds claims for a freshly authenticated user. The
// issuer is not set here; Sign stamps the signer's configured issuer so the
// claim can never disagree with what Verify enforces.
func NewSessionClaims(
	subject, name, email, role string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  name,
		Email: email,
		Role:  role,
	}
}
