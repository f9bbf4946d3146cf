package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/config"
	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/events"
)

// -------- test fakes --------

type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	err     error
	created []*domain.Account
	updated []*domain.Account
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	if f.err != nil {
		return f.err
	}
	account.ID = "created-1"
	f.created = append(f.created, account)
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.Account{}
	}
	f.byEmail[account.Email] = account
	return nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, account)
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, account := range f.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	account, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

type fakeFederated struct {
	exchangeErr error
	identityErr error
	identity    *auth.FederatedIdentity
}

func (f *fakeFederated) AuthCodeURL(state string) string {
	return "https://id.example.com/authorize?state=" + state
}

func (f *fakeFederated) Exchange(ctx context.Context, code string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "access-token", nil
}

func (f *fakeFederated) FetchIdentity(ctx context.Context, accessToken string) (*auth.FederatedIdentity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

// -------- helpers --------

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 60,
			BcryptCost:      4,
		},
	}
}

func storedAccount(t *testing.T, role domain.AccountRole) *domain.Account {
	t.Helper()
	hash, err := auth.HashPassword("right", 4)
	require.NoError(t, err)
	return &domain.Account{
		ID:           "acc-1",
		Name:         "Ada",
		Email:        "a@b.com",
		PasswordHash: hash,
		Role:         role,
	}
}

func newTestAuthService(repo *fakeAccountRepo, federated auth.FederatedProvider, dispatcher events.Dispatcher) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		AccountRepo: repo,
		Revocations: auth.NewRevocationStore(nil),
		Dispatcher:  dispatcher,
		Federated:   federated,
	})
}

// -------- password flow --------

func TestLogin_Success(t *testing.T) {
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{
		"a@b.com": storedAccount(t, domain.RoleAdmin),
	}}
	dispatcher := &capturingDispatcher{}
	svc := newTestAuthService(repo, nil, dispatcher)

	result, err := svc.Login(context.Background(), &auth.Credentials{Email: "a@b.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.User.Role)
	assert.Equal(t, "a@b.com", claims.User.Email)

	session := auth.SessionFromClaims(claims)
	assert.Equal(t, domain.RoleAdmin, session.User.Role)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventLoginSucceeded, dispatcher.published[0].Type)
	assert.Equal(t, "acc-1", dispatcher.published[0].AccountID)
}

func TestLogin_MissingRoleNormalizedToUser(t *testing.T) {
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{
		"a@b.com": storedAccount(t, ""),
	}}
	svc := newTestAuthService(repo, nil, nil)

	result, err := svc.Login(context.Background(), &auth.Credentials{Email: "a@b.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, result.User.Role)
}

// Wrong password, unknown email, malformed submission and a storage
// fault must be indistinguishable to the caller.
func TestLogin_RejectionsLookAlike(t *testing.T) {
	known := &fakeAccountRepo{byEmail: map[string]*domain.Account{
		"a@b.com": storedAccount(t, domain.RoleUser),
	}}

	cases := map[string]struct {
		repo  *fakeAccountRepo
		creds *auth.Credentials
	}{
		"wrong password": {known, &auth.Credentials{Email: "a@b.com", Password: "wrong"}},
		"unknown email":  {known, &auth.Credentials{Email: "x@y.com", Password: "right"}},
		"nil submission": {known, nil},
		"empty fields":   {known, &auth.Credentials{}},
		"store down":     {&fakeAccountRepo{err: errors.New("connection refused")}, &auth.Credentials{Email: "a@b.com", Password: "right"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestAuthService(tc.repo, nil, nil)
			result, err := svc.Login(context.Background(), tc.creds)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrAuthenticationRejected)
		})
	}
}

func TestLogin_RejectedEventCarriesNoDetail(t *testing.T) {
	dispatcher := &capturingDispatcher{}
	svc := newTestAuthService(&fakeAccountRepo{}, nil, dispatcher)

	_, err := svc.Login(context.Background(), &auth.Credentials{Email: "a@b.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrAuthenticationRejected)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventLoginRejected, dispatcher.published[0].Type)
	assert.Empty(t, dispatcher.published[0].AccountID)
}

// -------- federated flow --------

func TestFederatedLogin_CreatesAccountOnFirstLogin(t *testing.T) {
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{}}
	federated := &fakeFederated{identity: &auth.FederatedIdentity{
		Subject: "authentik-sub",
		Email:   "new@example.com",
		Name:    "New Person",
	}}
	svc := newTestAuthService(repo, federated, nil)

	result, err := svc.FederatedLogin(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, result.User.Role)
	assert.Equal(t, "new@example.com", result.User.Email)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.RoleUser, repo.created[0].Role)
}

func TestFederatedLogin_ReusesExistingAccountAndRole(t *testing.T) {
	existing := storedAccount(t, domain.RoleAdmin)
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{"a@b.com": existing}}
	federated := &fakeFederated{identity: &auth.FederatedIdentity{Email: "a@b.com", Name: "Ada"}}
	svc := newTestAuthService(repo, federated, nil)

	result, err := svc.FederatedLogin(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated, "an unchanged profile must not trigger a write")
}

// The provider's current name and image refresh the stored account on
// each federated login; role and credentials stay as stored.
func TestFederatedLogin_RefreshesStoredProfile(t *testing.T) {
	existing := storedAccount(t, domain.RoleAdmin)
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{"a@b.com": existing}}
	federated := &fakeFederated{identity: &auth.FederatedIdentity{
		Email: "a@b.com",
		Name:  "Ada Lovelace",
		Image: "https://id.example.com/ada.png",
	}}
	svc := newTestAuthService(repo, federated, nil)

	result, err := svc.FederatedLogin(context.Background(), "auth-code")
	require.NoError(t, err)

	require.Len(t, repo.updated, 1)
	assert.Equal(t, "Ada Lovelace", repo.updated[0].Name)
	assert.Equal(t, "https://id.example.com/ada.png", repo.updated[0].Image)
	assert.Equal(t, domain.RoleAdmin, repo.updated[0].Role)
	assert.Equal(t, "Ada Lovelace", result.User.Name)
	assert.Empty(t, repo.created)
}

func TestFederatedLogin_HandshakeFailuresCollapse(t *testing.T) {
	cases := map[string]*fakeFederated{
		"exchange fails": {exchangeErr: errors.New("bad code")},
		"userinfo fails": {identityErr: errors.New("unreachable")},
	}

	for name, federated := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestAuthService(&fakeAccountRepo{}, federated, nil)
			_, err := svc.FederatedLogin(context.Background(), "auth-code")
			assert.ErrorIs(t, err, ErrAuthenticationRejected)
		})
	}
}

func TestFederatedLogin_DisabledWithoutConfig(t *testing.T) {
	svc := newTestAuthService(&fakeAccountRepo{}, nil, nil)

	assert.False(t, svc.FederatedEnabled())
	_, err := svc.FederatedLogin(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrAuthenticationRejected)
}

// -------- session introspection --------

func TestSessionAccount_PrefersStoredProfile(t *testing.T) {
	stored := storedAccount(t, domain.RoleAdmin)
	stored.Name = "Ada Lovelace"
	repo := &fakeAccountRepo{byEmail: map[string]*domain.Account{"a@b.com": stored}}
	svc := newTestAuthService(repo, nil, nil)

	session := &auth.Session{User: domain.TokenUser{
		ID:    "acc-1",
		Name:  "Ada",
		Email: "a@b.com",
		Role:  domain.RoleAdmin,
	}}

	user := svc.SessionAccount(context.Background(), session)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestSessionAccount_FallsBackToTokenPayload(t *testing.T) {
	repo := &fakeAccountRepo{err: errors.New("connection refused")}
	svc := newTestAuthService(repo, nil, nil)

	embedded := domain.TokenUser{ID: "acc-1", Name: "Ada", Email: "a@b.com", Role: domain.RoleUser}
	user := svc.SessionAccount(context.Background(), &auth.Session{User: embedded})

	assert.Equal(t, embedded, user)
}

// -------- logout --------

func TestLogout_EmitsEvent(t *testing.T) {
	dispatcher := &capturingDispatcher{}
	svc := newTestAuthService(&fakeAccountRepo{}, nil, dispatcher)

	session := &auth.Session{
		User:      domain.TokenUser{ID: "acc-1", Role: domain.RoleUser},
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, svc.Logout(context.Background(), session))

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventLogout, dispatcher.published[0].Type)
	assert.Equal(t, "acc-1", dispatcher.published[0].AccountID)
}
