package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/bookmark-service/internal/domain"
)

// TokenManager handles issuing and validating signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload. User is set exactly once, when a
// freshly authenticated account is presented at mint time.
type Claims struct {
	User domain.TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// EnrichClaims applies the token enrichment step. When an account is
// present the user payload is overwritten unconditionally from it,
// with a missing role normalized to "user". When no account is
// present (a refresh of an established token) the claims pass through
// untouched, user payload included.
func EnrichClaims(claims *Claims, account *domain.Account) *Claims {
	if account == nil {
		return claims
	}
	claims.User = domain.TokenUserFromAccount(account)
	return claims
}

// MintToken signs a token for a freshly authenticated account.
func (tm *TokenManager) MintToken(account *domain.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	EnrichClaims(claims, account)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// RefreshToken re-signs existing claims without touching the embedded
// user, extending the expiry by the configured lifetime.
func (tm *TokenManager) RefreshToken(claims *Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)

	refreshed := *claims
	EnrichClaims(&refreshed, nil)
	refreshed.ExpiresAt = jwt.NewNumericDate(expiresAt)
	refreshed.IssuedAt = jwt.NewNumericDate(now)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshed)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
