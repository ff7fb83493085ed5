package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrInvalid    = errors.New("jwtx: invalid token")
)

// MinSecretLength is the minimum accepted HMAC secret size in bytes.
// Anything shorter than the HS256 output size weakens the MAC.
const MinSecretLength = 32

// Signer signs session claims into a compact JWT.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and returns the claims when it checks out.
// Verification is pure computation, safe for unlimited parallelism.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single shared HMAC-SHA256 secret.
// It implements both Signer and Verifier.
type HS256 struct {
	secret []byte
	issuer string
}

// NewHS256 builds an HS256 signer/verifier. The secret is the one piece of
// state whose misconfiguration should abort startup, so short secrets are
// rejected here rather than discovered at verify time.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

// Sign turns claims into a signed compact JWT string. The configured issuer
// is stamped here, overriding anything the caller set, so that every signed
// token carries exactly the issuer Verify checks for.
func (h *HS256) Sign(claims Claims) (string, error) {
	claims.Issuer = h.issuer
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Verify parses and validates a token: signature, algorithm, expiry, and
// issuer (when one was configured). Failure modes collapse into a small
// sentinel set so callers can branch without string matching.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		// Pin the algorithm. Without this a token with alg=none or an
		// attacker-chosen algorithm could slip through.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrInvalid
		}
	}

	return claims, nil
}
