package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverTrimsWhitespace(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.SourceID(ctx, "  CNN ")
	require.NoError(t, err)

	second, err := r.SourceID(ctx, "CNN")
	require.NoError(t, err)

	assert.Equal(t, first, second, "names differing only by whitespace share an id")
	assert.Equal(t, 1, store.creates)
}

func TestResolverDefaultsBlankSourceName(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	r := NewResolver(store)

	id, err := r.SourceID(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, store.sources["Unknown Source"], id)
}

func TestResolverPrimesFromStoreOnce(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	store.sources["BBC"] = 42

	r := NewResolver(store)

	id, err := r.SourceID(context.Background(), "BBC")
	require.NoError(t, err)

	assert.Equal(t, int64(42), id)
	assert.Zero(t, store.creates, "primed names never hit get-or-create")
}

func TestResolverCachesWithinRunOnly(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	ctx := context.Background()

	r1 := NewResolver(store)
	_, err := r1.CategoryID(ctx, "Technology")
	require.NoError(t, err)
	_, err = r1.CategoryID(ctx, "Technology")
	require.NoError(t, err)
	assert.Equal(t, 1, store.creates)

	// a second run primes from the store instead of re-creating
	r2 := NewResolver(store)
	id, err := r2.CategoryID(ctx, "Technology")
	require.NoError(t, err)
	assert.Equal(t, store.categories["Technology"], id)
	assert.Equal(t, 1, store.creates)
}

func TestResolverPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	store.failCreate = true

	r := NewResolver(store)

	_, err := r.SourceID(context.Background(), "CNN")
	require.Error(t, err)
}
