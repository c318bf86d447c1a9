package favorite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

type fakeRepo struct {
	saved map[[2]string]bool
}

func (r *fakeRepo) Add(_ context.Context, userID, propertyID string) error {
	r.saved[[2]string{userID, propertyID}] = true
	return nil
}

func (r *fakeRepo) Remove(_ context.Context, userID, propertyID string) error {
	key := [2]string{userID, propertyID}
	if !r.saved[key] {
		return ErrNotFound
	}
	delete(r.saved, key)
	return nil
}

func (r *fakeRepo) List(_ context.Context, userID string, _, _ int) ([]*Favorite, int, error) {
	var out []*Favorite
	for key := range r.saved {
		if key[0] == userID {
			out = append(out, &Favorite{UserID: userID, Property: &property.Property{ID: key[1]}})
		}
	}
	return out, len(out), nil
}

type fakeProperties map[string]*property.Property

func (f fakeProperties) GetByID(_ context.Context, id string) (*property.Property, error) {
	p, ok := f[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	return p, nil
}

func newTestService() (Service, *fakeRepo) {
	repo := &fakeRepo{saved: map[[2]string]bool{}}
	props := fakeProperties{
		"property-1": {ID: "property-1", IsActive: true},
		"property-2": {ID: "property-2", IsActive: false},
	}
	return NewService(repo, props), repo
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Add(ctx, "tenant-1", "property-1"))
	require.NoError(t, svc.Add(ctx, "tenant-1", "property-1"))

	list, total, err := svc.List(ctx, "tenant-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "property-1", list[0].Property.ID)
}

func TestAddRequiresActiveProperty(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	assert.ErrorIs(t, svc.Add(ctx, "tenant-1", "missing"), ErrPropertyNotFound)
	assert.ErrorIs(t, svc.Add(ctx, "tenant-1", "property-2"), ErrPropertyNotFound)
	assert.Empty(t, repo.saved)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Add(ctx, "tenant-1", "property-1"))
	require.NoError(t, svc.Remove(ctx, "tenant-1", "property-1"))
	assert.ErrorIs(t, svc.Remove(ctx, "tenant-1", "property-1"), ErrNotFound)
}
