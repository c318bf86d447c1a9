package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedServiceGetByID(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	cached := NewCachedService(svc, 10, time.Minute)
	defer cached.Stop()

	u, err := svc.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "password123"})
	require.NoError(t, err)
	hits := repo.getByIDHits

	first, err := cached.GetByID(ctx, u.ID)
	require.NoError(t, err)
	_, err = cached.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, hits+1, repo.getByIDHits, "second lookup should be served from cache")

	// Mutating the returned copy must not leak into the cache.
	first.Email = "changed@example.com"
	again, err := cached.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", again.Email)
}

func TestCachedServiceInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	cached := NewCachedService(svc, 10, time.Minute)
	defer cached.Stop()

	u, err := svc.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = cached.GetByID(ctx, u.ID)
	require.NoError(t, err)

	inactive := false
	_, err = cached.Update(ctx, u.ID, UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	fresh, err := cached.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsActive)
}

func TestCachedServiceDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	cached := NewCachedService(svc, 10, time.Minute)
	defer cached.Stop()

	_, err := cached.GetByID(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := svc.Register(ctx, RegisterRequest{Email: "late@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "u-1", u.ID)
	require.Contains(t, repo.users, "u-1")

	found, err := cached.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "late@example.com", found.Email)
}
