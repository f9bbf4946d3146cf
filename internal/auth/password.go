package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/repository"
)

// ErrInvalidCredentials is returned by the verifier when the email is
// unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordVerifier resolves an email/password pair to an account.
// Implementations fail on invalid credentials AND on backend trouble;
// the credential validator collapses both to the same outcome.
type PasswordVerifier interface {
	ValidatePassword(ctx context.Context, email, password string) (*domain.Account, error)
}

// StoreVerifier verifies passwords against the account store.
type StoreVerifier struct {
	accounts repository.AccountRepository
}

// NewStoreVerifier builds a verifier backed by the given repository.
func NewStoreVerifier(accounts repository.AccountRepository) *StoreVerifier {
	return &StoreVerifier{accounts: accounts}
}

// ValidatePassword loads the account by email and compares the bcrypt
// hash. Storage errors propagate unchanged; mismatches and unknown
// emails surface as ErrInvalidCredentials.
func (v *StoreVerifier) ValidatePassword(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := v.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := ComparePassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}
