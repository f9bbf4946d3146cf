package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/config"
	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/events"
	"github.com/spec-kit/bookmark-service/internal/repository"
)

// ErrAuthenticationRejected is the single externally observable
// failure for every login path. Wrong password, unknown email,
// malformed submission, backend fault and federated handshake errors
// all collapse to it.
var ErrAuthenticationRejected = errors.New("authentication rejected")

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.TokenUser
}

// AuthService coordinates the login flows, token lifecycle and the
// provider registry.
type AuthService struct {
	providers   []auth.Provider
	validator   *auth.CredentialValidator
	accounts    repository.AccountRepository
	tokenMgr    *auth.TokenManager
	revocations *auth.RevocationStore
	federated   auth.FederatedProvider
	dispatcher  events.Dispatcher
}

// AuthDependencies encapsulates collaborator requirements for the
// auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Revocations *auth.RevocationStore
	Dispatcher  events.Dispatcher
	// Federated overrides the provider built from config; used by
	// tests and alternative identity backends.
	Federated auth.FederatedProvider
}

// NewAuthService builds the service. The provider registry is
// assembled here, once, and never mutated afterwards.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	federated := deps.Federated
	if federated == nil && cfg.Auth.Authentik != nil {
		federated = auth.NewAuthentikProvider(*cfg.Auth.Authentik)
	}

	return &AuthService{
		providers:   auth.BuildProviders(cfg.Auth),
		validator:   auth.NewCredentialValidator(auth.NewStoreVerifier(deps.AccountRepo)),
		accounts:    deps.AccountRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		revocations: deps.Revocations,
		federated:   federated,
		dispatcher:  deps.Dispatcher,
	}
}

// Providers returns the process-wide provider registry.
func (s *AuthService) Providers() []auth.Provider {
	return s.providers
}

// Login runs the password flow: credential validation, token mint
// with enrichment. The caller learns nothing about why a login was
// rejected.
func (s *AuthService) Login(ctx context.Context, creds *auth.Credentials) (*LoginResult, error) {
	account := s.validator.Authorize(ctx, creds)
	if account == nil {
		s.emit(ctx, events.Event{Type: events.EventLoginRejected, Provider: "password"})
		return nil, ErrAuthenticationRejected
	}

	result, err := s.mint(account)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.Event{Type: events.EventLoginSucceeded, AccountID: account.ID, Provider: "password"})
	return result, nil
}

// FederatedEnabled reports whether a federated provider is configured.
func (s *AuthService) FederatedEnabled() bool {
	return s.federated != nil
}

// FederatedAuthCodeURL returns the redirect target starting the
// federated handshake.
func (s *AuthService) FederatedAuthCodeURL(state string) (string, error) {
	if s.federated == nil {
		return "", ErrAuthenticationRejected
	}
	return s.federated.AuthCodeURL(state), nil
}

// FederatedLogin completes the handshake: code exchange, identity
// fetch, account upsert, then the same mint path as password logins.
// Every handshake failure surfaces as ErrAuthenticationRejected.
func (s *AuthService) FederatedLogin(ctx context.Context, code string) (*LoginResult, error) {
	if s.federated == nil || code == "" {
		return nil, ErrAuthenticationRejected
	}

	accessToken, err := s.federated.Exchange(ctx, code)
	if err != nil {
		s.emit(ctx, events.Event{Type: events.EventLoginRejected, Provider: "federated"})
		return nil, ErrAuthenticationRejected
	}

	identity, err := s.federated.FetchIdentity(ctx, accessToken)
	if err != nil {
		s.emit(ctx, events.Event{Type: events.EventLoginRejected, Provider: "federated"})
		return nil, ErrAuthenticationRejected
	}

	account, err := s.upsertFederatedAccount(ctx, identity)
	if err != nil {
		s.emit(ctx, events.Event{Type: events.EventLoginRejected, Provider: "federated"})
		return nil, ErrAuthenticationRejected
	}

	result, err := s.mint(account)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.Event{Type: events.EventFederatedLogin, AccountID: account.ID, Provider: "federated"})
	return result, nil
}

// Logout revokes the session's token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, session *auth.Session) error {
	if session == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.emit(ctx, events.Event{Type: events.EventLogout, AccountID: session.User.ID})
	return nil
}

// SessionAccount resolves the session's account for introspection.
// The stored profile wins when the store is reachable; the token
// payload answers when it is not, so introspection keeps working
// through a storage outage.
func (s *AuthService) SessionAccount(ctx context.Context, session *auth.Session) domain.TokenUser {
	if !session.Valid() {
		return domain.TokenUser{}
	}
	account, err := s.accounts.GetByID(ctx, session.User.ID)
	if err != nil {
		return session.User
	}
	return domain.TokenUserFromAccount(account)
}

// TokenManager exposes the underlying token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) mint(account *domain.Account) (*LoginResult, error) {
	token, expiresAt, err := s.tokenMgr.MintToken(account)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      domain.TokenUserFromAccount(account),
	}, nil
}

func (s *AuthService) upsertFederatedAccount(ctx context.Context, identity *auth.FederatedIdentity) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, identity.Email)
	if err == nil {
		if refreshFederatedProfile(account, identity) {
			if err := s.accounts.Update(ctx, account); err != nil {
				return nil, err
			}
		}
		return account, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	account = identity.AccountShape()
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// refreshFederatedProfile copies the provider's current name and
// image onto the stored account. Role and credentials never come from
// the provider.
func refreshFederatedProfile(account *domain.Account, identity *auth.FederatedIdentity) bool {
	changed := false
	if identity.Name != "" && identity.Name != account.Name {
		account.Name = identity.Name
		changed = true
	}
	if identity.Image != "" && identity.Image != account.Image {
		account.Image = identity.Image
		changed = true
	}
	return changed
}

func (s *AuthService) emit(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
