package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.validate, "test-secret", time.Hour, testLogger())
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"})
	requireKind(t, err, ErrConflict)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong"})
	requireKind(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)

	parsed, err := jwt.Parse(token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "user", claims["role"])
	require.NotEmpty(t, claims["sub"])
}

func TestAuthInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.validate, "test-secret", time.Hour, testLogger())
	ctx := context.Background()

	actor := env.user(t, "dormant", models.RoleStudent)
	user, err := env.users.GetByID(ctx, actor.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.users.Update(ctx, &user))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "dormant", Password: "secret123"})
	require.ErrorIs(t, err, ErrInactiveUser)

	_, err = svc.CurrentUser(ctx, actor.ID)
	requireKind(t, err, ErrUnauthorized)

	_, err = svc.CurrentUser(ctx, 4242)
	requireKind(t, err, ErrUnauthorized)
}

func TestUserServiceAdminUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.validate, testLogger())
	ctx := context.Background()

	actor := env.user(t, "promote", models.RoleUser)
	env.user(t, "another", models.RoleStudent)

	updated, err := svc.AdminUpdate(ctx, actor.ID, dto.UserAdminUpdateRequest{Role: ptr(models.RoleSupervisor), IsActive: ptr(false)})
	require.NoError(t, err)
	require.Equal(t, models.RoleSupervisor, updated.Role)
	require.False(t, updated.IsActive)

	_, err = svc.AdminUpdate(ctx, actor.ID, dto.UserAdminUpdateRequest{Role: ptr("wizard")})
	require.Error(t, err)

	_, err = svc.AdminUpdate(ctx, 999, dto.UserAdminUpdateRequest{})
	require.ErrorIs(t, err, ErrUserNotFound)

	students, err := svc.List(ctx, dto.UserListRequest{Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, students.Items, 1)
	require.EqualValues(t, 1, students.Pagination.TotalItems)
}
