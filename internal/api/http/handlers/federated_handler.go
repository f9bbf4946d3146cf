package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/bookmark-service/internal/service"
)

const stateCookieName = "federated_state"

// FederatedHandler drives the redirect-based identity handshake. The
// protocol internals live behind the auth service's federated
// provider; this handler only moves the browser through it.
type FederatedHandler struct {
	auth      *service.AuthService
	loginPath string
}

// NewFederatedHandler constructs handler.
func NewFederatedHandler(authService *service.AuthService, loginPath string) *FederatedHandler {
	return &FederatedHandler{auth: authService, loginPath: loginPath}
}

// Login handles GET /auth/federated/login by redirecting to the
// provider's authorization URL with a fresh state nonce.
func (h *FederatedHandler) Login(c *fiber.Ctx) error {
	if !h.auth.FederatedEnabled() {
		return c.Redirect(h.loginPath, fiber.StatusFound)
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	target, err := h.auth.FederatedAuthCodeURL(state)
	if err != nil {
		return c.Redirect(h.loginPath, fiber.StatusFound)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// Callback handles GET /auth/federated/callback. Every failure mode,
// state mismatch included, lands back on the login surface with no
// further detail.
func (h *FederatedHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	expected := c.Cookies(stateCookieName)
	if state == "" || expected == "" || state != expected {
		return c.Redirect(h.loginPath, fiber.StatusFound)
	}

	result, err := h.auth.FederatedLogin(c.UserContext(), c.Query("code"))
	if err != nil {
		return c.Redirect(h.loginPath, fiber.StatusFound)
	}

	setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.Redirect("/bookmarks", fiber.StatusFound)
}
