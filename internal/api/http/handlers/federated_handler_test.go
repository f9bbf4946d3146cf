package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/config"
	"github.com/spec-kit/bookmark-service/internal/service"
)

type stubFederated struct {
	exchangeErr error
	identity    *auth.FederatedIdentity
}

func (s *stubFederated) AuthCodeURL(state string) string {
	return "https://id.example.com/authorize?state=" + state
}

func (s *stubFederated) Exchange(ctx context.Context, code string) (string, error) {
	if s.exchangeErr != nil {
		return "", s.exchangeErr
	}
	return "access-token", nil
}

func (s *stubFederated) FetchIdentity(ctx context.Context, accessToken string) (*auth.FederatedIdentity, error) {
	return s.identity, nil
}

func newFederatedApp(t *testing.T, federated auth.FederatedProvider) *fiber.App {
	t.Helper()

	svc := service.NewAuthService(config.Config{Auth: passwordAuthConfig()}, service.AuthDependencies{
		AccountRepo: &stubAccountRepo{},
		Revocations: auth.NewRevocationStore(nil),
		Federated:   federated,
	})

	handler := NewFederatedHandler(svc, "/")
	app := fiber.New()
	app.Get("/auth/federated/login", handler.Login)
	app.Get("/auth/federated/callback", handler.Callback)
	return app
}

func TestFederatedLogin_RedirectsToProvider(t *testing.T) {
	app := newFederatedApp(t, &stubFederated{})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/federated/login", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "https://id.example.com/authorize?state=")

	stateSet := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "federated_state" && cookie.Value != "" {
			stateSet = true
		}
	}
	assert.True(t, stateSet, "state cookie must be set")
}

func TestFederatedLogin_DisabledRedirectsHome(t *testing.T) {
	app := newFederatedApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/federated/login", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestFederatedCallback_StateMismatchRedirectsHome(t *testing.T) {
	app := newFederatedApp(t, &stubFederated{})

	req := httptest.NewRequest("GET", "/auth/federated/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "federated_state", Value: "expected"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestFederatedCallback_HandshakeFailureRedirectsHome(t *testing.T) {
	app := newFederatedApp(t, &stubFederated{exchangeErr: errors.New("bad code")})

	req := httptest.NewRequest("GET", "/auth/federated/callback?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "federated_state", Value: "s1"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestFederatedCallback_SuccessSetsSessionCookie(t *testing.T) {
	app := newFederatedApp(t, &stubFederated{identity: &auth.FederatedIdentity{
		Subject: "authentik-sub",
		Email:   "new@example.com",
		Name:    "New Person",
	}})

	req := httptest.NewRequest("GET", "/auth/federated/callback?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "federated_state", Value: "s1"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/bookmarks", resp.Header.Get("Location"))

	sessionSet := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName && cookie.Value != "" {
			sessionSet = true
		}
	}
	assert.True(t, sessionSet, "session cookie must be set")
}
