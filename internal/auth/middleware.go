package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookmark-service/internal/domain"
	apperrors "github.com/spec-kit/bookmark-service/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// SessionCookieName is the cookie carrying the signed token.
const SessionCookieName = "session_token"

// SessionMiddleware reconstructs the request session from the signed
// token, when one is present and valid. It never aborts on its own;
// enforcement is RequireSession's job so that public routes can share
// the same pipeline.
type SessionMiddleware struct {
	tokens      *TokenManager
	revocations *RevocationStore
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, revocations *RevocationStore) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, revocations: revocations}
}

// Handle decodes the token from the session cookie or bearer header
// and stores the reconstructed session in request locals.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := tokenFromRequest(c)
	if raw == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return c.Next()
	}
	if m.revocations.IsRevoked(c.Context(), claims.ID) {
		return c.Next()
	}

	c.Locals(sessionKey, SessionFromClaims(claims))
	return c.Next()
}

// SessionFromContext retrieves the current request's session.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	if !ok || !session.Valid() {
		return nil, false
	}
	return session, true
}

// RequireSession is the hard gate in front of protected entry points.
// Without a valid session the request is redirected to the login
// surface before any handler body runs; no partial output, no data
// layer calls.
func RequireSession(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRole layers a role check on top of the session gate for
// entry points that need more than authentication.
func RequireRole(role domain.AccountRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("session required")
		}
		if session.User.Role != role {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
