package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookmark-service/internal/api/dto"
	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/service"
	apperrors "github.com/spec-kit/bookmark-service/pkg/util/errorutil"
)

// AuthHandler exposes the provider registry and the password login
// lifecycle.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Providers handles GET /auth/providers.
func (h *AuthHandler) Providers(c *fiber.Ctx) error {
	providers := h.auth.Providers()
	items := make([]dto.ProviderDescriptor, 0, len(providers))
	for _, p := range providers {
		desc := dto.ProviderDescriptor{Kind: string(p.Kind), Name: p.Name}
		for _, f := range p.Fields {
			desc.Fields = append(desc.Fields, dto.ProviderField{Name: f.Name, Type: f.Type})
		}
		items = append(items, desc)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Login handles POST /auth/login. A malformed body is handed to the
// service as an absent submission: the response is the same 401 as a
// wrong password, with nothing to tell the cases apart.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds *auth.Credentials
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err == nil {
		creds = &auth.Credentials{Email: req.Email, Password: req.Password}
	}

	result, err := h.auth.Login(c.UserContext(), creds)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.SessionUser{
				ID:    result.User.ID,
				Name:  result.User.Name,
				Email: result.User.Email,
				Image: result.User.Image,
				Role:  string(result.User.Role),
			},
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Logout handles POST /auth/logout for an authenticated session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.auth.Logout(c.UserContext(), session); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /auth/session. The user payload is resolved
// against the account store so introspection reflects profile changes
// made since the token was minted.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	user := h.auth.SessionAccount(c.UserContext(), session)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.SessionUser{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Image: user.Image,
				Role:  string(user.Role),
			},
			"expires_at": session.ExpiresAt,
		},
	})
}

func setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
