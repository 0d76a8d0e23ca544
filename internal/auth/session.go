// Package auth adapts the external authentication provider's token into an
// owner identity for the remote storage engine. CardGuard does not
// implement authentication itself; it only validates what the provider
// issued.
package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session carries the authenticated owner identity every remote operation
// is scoped by.
type Session struct {
	UserID string
}

// Provider yields the current session, or common.ErrUnauthenticated when
// none exists. The remote engine calls it before every operation.
type Provider interface {
	Session(ctx context.Context) (*Session, error)
}

// Claims is the token payload: registered claims plus an explicit UserID.
// Tokens that only set the subject are accepted too.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// TokenProvider validates a single externally issued HS256 token and
// exposes its owner identity. The token is fixed at process start; an
// expired token simply makes every remote call fail unauthenticated.
type TokenProvider struct {
	token  string
	secret []byte
}

func NewTokenProvider(token, secret string) *TokenProvider {
	return &TokenProvider{token: token, secret: []byte(secret)}
}

func (p *TokenProvider) Session(ctx context.Context) (*Session, error) {
	if p.token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(p.token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrInvalidToken)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: token carries no owner id", common.ErrUnauthenticated)
	}

	return &Session{UserID: userID}, nil
}

// GenerateToken mints a token for the given owner. Used by tests and local
// tooling; production tokens come from the authentication provider.
func GenerateToken(userID string, secret []byte, expiresAt *jwt.NumericDate) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: expiresAt},
		UserID:           userID,
	})
	return token.SignedString(secret)
}
