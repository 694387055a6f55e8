package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/slipbook-erp/slipbook/internal/shared"
)

// Identity is the authenticated account.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Verifier checks a credential pair and returns the identity it maps to.
// The production wiring uses a single configured owner identity; tests
// plug in stubs.
type Verifier interface {
	Verify(ctx context.Context, identifier, secret string) (*Identity, error)
}

// ConfigVerifier verifies against one identity sourced from configuration:
// an email and a bcrypt password hash. No secrets live in code.
type ConfigVerifier struct {
	email        string
	passwordHash string
	uid          string
}

// NewConfigVerifier constructs ConfigVerifier. The uid is stable per
// configured identity so sessions survive restarts.
func NewConfigVerifier(email, passwordHash string) *ConfigVerifier {
	return &ConfigVerifier{
		email:        email,
		passwordHash: passwordHash,
		uid:          "owner",
	}
}

// Verify validates the credential pair against the configured identity.
func (v *ConfigVerifier) Verify(ctx context.Context, identifier, secret string) (*Identity, error) {
	if !strings.EqualFold(identifier, v.email) {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(secret)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return &Identity{UID: v.uid, Email: v.email}, nil
}
