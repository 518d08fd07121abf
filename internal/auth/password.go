package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid operator name or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// PasswordAuthenticator verifies the single operator password. The data
// this service fronts is one household's finances, so there is one
// operator credential configured at deploy time rather than a user
// directory.
type PasswordAuthenticator struct {
	operator     string
	passwordHash []byte
}

// NewPasswordAuthenticator creates an authenticator for the configured
// operator name and bcrypt password hash.
func NewPasswordAuthenticator(operator, passwordHash string) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		operator:     operator,
		passwordHash: []byte(passwordHash),
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Authenticate verifies the operator name and password, returning the
// operator name if valid.
func (a *PasswordAuthenticator) Authenticate(operator, credential string) (string, error) {
	if operator != a.operator {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(credential)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.operator, nil
}

// HashPassword produces a bcrypt hash for deploy-time configuration.
func HashPassword(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
