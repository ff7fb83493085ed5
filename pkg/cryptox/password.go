package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. Cost 10 keeps a single hash around
// 50-100ms on current hardware, slow enough to make offline guessing
// expensive without making login feel sluggish.
const HashCost = 10

// ErrMismatch is returned by VerifyPassword when the password does not
// match the stored hash.
var ErrMismatch = errors.New("cryptox: password does not match")

// HashPassword produces a salted bcrypt hash of the given plaintext.
// The salt is generated internally by bcrypt and encoded into the hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// bcrypt's comparison is constant-time with respect to the password, so
// callers learn nothing about where a mismatch occurred.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
	return nil
}

// GeneratePassword returns a random 12-character alphanumeric password.
// Used for admin-created accounts, which receive an initial password the
// operator hands over out of band.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: generate password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
