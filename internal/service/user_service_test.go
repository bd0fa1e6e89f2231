package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-api/internal/core/auth"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/testutil"
)

func newAuthService(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	st := testutil.NewStore(t)
	j := &auth.JWTer{Secret: []byte("test"), Issuer: "test", TTL: time.Minute, RefreshTTL: time.Hour}
	return NewAuthService(st, j, nil), NewUserService(st, nil)
}

func TestSignupAlwaysCustomer(t *testing.T) {
	ctx := context.Background()
	as, _ := newAuthService(t)

	u, err := as.Signup(ctx, SignupInput{Email: " Ann@Example.com ", FirstName: "Ann", LastName: "Lee", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	_, err = as.Signup(ctx, SignupInput{Email: "ann@example.com", FirstName: "A", LastName: "B", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = as.Signup(ctx, SignupInput{Email: "bad", FirstName: "A", LastName: "B", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = as.Signup(ctx, SignupInput{Email: "x@example.com", FirstName: "A", LastName: "B", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	as, _ := newAuthService(t)
	u, err := as.Signup(ctx, SignupInput{Email: "bob@example.com", FirstName: "Bob", LastName: "Ray", Password: "secret123"})
	require.NoError(t, err)

	_, err = as.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = as.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	tok, err := as.Login(ctx, "BOB@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, tok.UserID)
	assert.Equal(t, "CUSTOMER", tok.Role)
	assert.NotEmpty(t, tok.AccessToken)

	// access token 不能用来刷新
	_, err = as.Refresh(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	again, err := as.Refresh(ctx, tok.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.UserID)
}

func TestCreateAdmin(t *testing.T) {
	as, users := newAuthService(t)
	u, err := as.CreateAdmin(context.Background(), SignupInput{Email: "root@example.com", FirstName: "Root", LastName: "Admin", Password: "secret123"})
	require.NoError(t, err)

	p, err := users.Principal(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestUserAccess(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	svc := NewUserService(st, nil)
	admin := testutil.CreateUser(t, st, domain.RoleAdmin).Principal()
	ann := testutil.CreateUser(t, st, domain.RoleCustomer)
	bob := testutil.CreateUser(t, st, domain.RoleCustomer)

	got, err := svc.GetUser(ctx, ann.ID, ann.Principal())
	require.NoError(t, err)
	assert.Equal(t, ann.Email, got.Email)

	_, err = svc.GetUser(ctx, ann.ID, bob.Principal())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetUser(ctx, "missing", admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.ListUsers(ctx, "", 0, 10, bob.Principal())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	us, total, err := svc.ListUsers(ctx, "", 0, 10, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, us, 3)

	updated, err := svc.UpdateUser(ctx, ann.ID, UserUpdate{FirstName: "Annie"}, ann.Principal())
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.FirstName)
	assert.Equal(t, ann.Email, updated.Email)

	_, err = svc.UpdateUser(ctx, ann.ID, UserUpdate{Email: bob.Email}, admin)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	svc := NewUserService(st, nil)
	admin := testutil.CreateUser(t, st, domain.RoleAdmin).Principal()
	ann := testutil.CreateUser(t, st, domain.RoleCustomer)

	_, err := svc.UpdateRole(ctx, ann.ID, domain.RoleAdmin, ann.Principal())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := svc.UpdateRole(ctx, ann.ID, domain.RoleHotelManager, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHotelManager, u.Role)

	_, err = svc.UpdateRole(ctx, ann.ID, domain.Role("ROOT"), admin)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.ErrorIs(t, svc.DeleteUser(ctx, ann.ID, ann.Principal()), domain.ErrUnauthorized)
	require.NoError(t, svc.DeleteUser(ctx, ann.ID, admin))
	assert.ErrorIs(t, svc.DeleteUser(ctx, ann.ID, admin), domain.ErrNotFound)

	_, err = svc.Principal(ctx, ann.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	as, users := newAuthService(t)
	u, err := as.Signup(ctx, SignupInput{Email: "cy@example.com", FirstName: "Cy", LastName: "D", Password: "secret123"})
	require.NoError(t, err)
	admin := domain.Principal{ID: "someone", Role: domain.RoleAdmin}

	assert.ErrorIs(t, users.UpdatePassword(ctx, u.ID, "secret123", "newsecret", admin), domain.ErrUnauthorized)
	assert.ErrorIs(t, users.UpdatePassword(ctx, u.ID, "wrong", "newsecret", u.Principal()), domain.ErrInvalidArgument)
	assert.ErrorIs(t, users.UpdatePassword(ctx, u.ID, "secret123", "x", u.Principal()), domain.ErrInvalidArgument)

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "secret123", "newsecret", u.Principal()))

	_, err = as.Login(ctx, "cy@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = as.Login(ctx, "cy@example.com", "newsecret")
	require.NoError(t, err)
}
