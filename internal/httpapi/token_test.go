package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/cache"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", time.Hour, cache.NewMemory())

	token, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a", time.Hour, cache.NewMemory())
	verifier := NewTokenManager("secret-b", time.Hour, cache.NewMemory())

	token, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), token)
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", time.Hour, cache.NewMemory())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, err := m.Issue(1)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Validate(context.Background(), token)
	require.Error(t, err)
}

func TestTokenRevocation(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", time.Hour, cache.NewMemory())
	ctx := context.Background()

	token, err := m.Issue(1)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, token))

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// revoking one token leaves others alone
	other, err := m.Issue(1)
	require.NoError(t, err)
	_, err = m.Validate(ctx, other)
	assert.NoError(t, err)
}
