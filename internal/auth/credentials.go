package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/bookmark-service/internal/domain"
)

// Credentials is the transient login submission. It is never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// outcome classifies an authorization attempt internally. The split
// between rejected and faulted never crosses the Authorize boundary:
// callers see only nil, so invalid input and backend failure stay
// indistinguishable from the outside.
type outcome int

const (
	outcomeGranted outcome = iota
	outcomeRejected
	outcomeFaulted
)

// CredentialValidator turns a credential submission into an account,
// or nothing. It never returns an error.
type CredentialValidator struct {
	verifier PasswordVerifier
}

// NewCredentialValidator builds the validator around a verifier.
func NewCredentialValidator(verifier PasswordVerifier) *CredentialValidator {
	return &CredentialValidator{verifier: verifier}
}

// Authorize resolves credentials to an account. A nil or incomplete
// submission, a wrong password, an unknown email, and a storage fault
// all produce the same nil result.
func (cv *CredentialValidator) Authorize(ctx context.Context, creds *Credentials) *domain.Account {
	account, result := cv.authorize(ctx, creds)
	if result != outcomeGranted {
		return nil
	}
	return account
}

func (cv *CredentialValidator) authorize(ctx context.Context, creds *Credentials) (*domain.Account, outcome) {
	if creds == nil || creds.Email == "" || creds.Password == "" {
		return nil, outcomeRejected
	}

	account, err := cv.verifier.ValidatePassword(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, outcomeRejected
		}
		return nil, outcomeFaulted
	}
	if account == nil {
		return nil, outcomeRejected
	}
	return account, outcomeGranted
}
