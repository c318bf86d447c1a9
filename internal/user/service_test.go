package user

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
)

type fakeRepo struct {
	users       map[string]*User
	getByIDHits int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	r.getByIDHits++
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	u.ID = "u-" + strconv.Itoa(len(r.users)+1)
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	var out []*User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = false
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:       "  Host@Example.com ",
		Password:    "password123",
		DisplayName: " Mia ",
		Role:        auth.RoleLandlord,
	})
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", u.Email)
	assert.Equal(t, auth.RoleLandlord, u.Role)
	assert.Equal(t, "Mia", u.Name())
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err = svc.Register(ctx, RegisterRequest{Email: "host@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterDefaultsAndRejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{Email: "guest@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleTenant, u.Role)
	assert.Equal(t, "guest@example.com", u.Name())

	_, err = svc.Register(ctx, RegisterRequest{Email: "", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "password123", Role: auth.RoleAdmin})
	assert.ErrorIs(t, err, ErrAdminSignup)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "password123", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	created, err := svc.Register(ctx, RegisterRequest{Email: "t@example.com", Password: "password123"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, "T@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.NotNil(t, u.LastLoginAt)

	_, err = svc.Login(ctx, "t@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.users[created.ID].IsActive = false
	_, err = svc.Login(ctx, "t@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Register(ctx, RegisterRequest{Email: "t@example.com", Password: "password123"})
	require.NoError(t, err)

	name := "Tomás"
	phone := "  "
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{DisplayName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Tomás", updated.Name())
	assert.Nil(t, updated.Phone)

	role := auth.RoleLandlord
	inactive := false
	updated, err = svc.Update(ctx, u.ID, UpdateUserRequest{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleLandlord, updated.Role)
	assert.False(t, updated.IsActive)

	bad := auth.Role("root")
	_, err = svc.Update(ctx, u.ID, UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Update(ctx, "missing", UpdateUserRequest{})
	assert.True(t, errors.Is(err, ErrNotFound))
}
