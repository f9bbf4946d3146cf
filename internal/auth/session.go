package auth

import (
	"time"

	"github.com/spec-kit/bookmark-service/internal/domain"
)

// Session is the per-request view derived from a valid token. It has
// no storage of its own and is rebuilt from the token on every
// request.
type Session struct {
	User      domain.TokenUser
	TokenID   string
	ExpiresAt time.Time
}

// Valid reports whether the session carries an embedded principal.
// Token validation already happened during parsing; a session built
// from a token without a user payload is not usable.
func (s *Session) Valid() bool {
	return s != nil && !s.User.IsZero()
}

// SessionFromClaims reconstructs a session from decoded claims. The
// session user is a copy of the token's user payload, shape for
// shape; the reconstruction itself never fails, a missing payload is
// the guard's concern.
func SessionFromClaims(claims *Claims) *Session {
	session := &Session{
		User:    claims.User,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
