// Package auth implements the stateless credential layer: signed,
// time-limited HS256 tokens and bcrypt password hashing. The store holds
// no session record; a token is self-contained.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type markers carried in the "typ" claim. Bearer-protected
// endpoints accept only TypeAccess.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, wrong algorithm, expired, or missing subject.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies signed tokens with a shared secret.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a token manager for the given signing secret.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

// Issue signs a token for the given subject. tokenType selects the
// lifetime: TypeAccess gets the short TTL, TypeRefresh the long one.
func (tm *TokenManager) Issue(subject, tokenType string) (string, error) {
	ttl := tm.accessTTL
	if tokenType == TypeRefresh {
		ttl = tm.refreshTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"typ": tokenType,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Verify decodes and signature-validates a token, returning its subject
// and type marker. Any decode, signature or expiry failure yields
// ErrInvalidToken.
func (tm *TokenManager) Verify(tokenString string) (subject, tokenType string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", ErrInvalidToken
	}
	typ, _ := claims["typ"].(string)
	return sub, typ, nil
}
