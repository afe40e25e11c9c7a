package httpapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// ErrTokenRevoked reports a structurally valid token that was logged out.
var ErrTokenRevoked = errors.New("token revoked")

const denyKeyPrefix = "revoked_token:"

// TokenManager issues and validates HS256 bearer tokens. Logout places the
// token id on a denylist (same cache backend as classification) until the
// token would have expired anyway.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	denylist ports.Cache
	now      func() time.Time
}

type tokenClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// NewTokenManager wires the signing secret and the denylist backend.
func NewTokenManager(secret string, ttl time.Duration, denylist ports.Cache) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue creates a signed token for the user.
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := m.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Validate checks signature, expiry, and the denylist, returning the user id.
func (m *TokenManager) Validate(ctx context.Context, token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, err
	}

	if _, revoked, err := m.denylist.Get(ctx, denyKeyPrefix+claims.ID); err != nil {
		return 0, fmt.Errorf("check denylist: %w", err)
	} else if revoked {
		return 0, ErrTokenRevoked
	}

	return claims.UserID, nil
}

// Revoke denylists the token until its natural expiry.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}

	ttl := m.ttl
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(m.now()); remaining > 0 {
			ttl = remaining
		}
	}

	return m.denylist.Set(ctx, denyKeyPrefix+claims.ID, "revoked", ttl)
}

func (m *TokenManager) parse(token string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
