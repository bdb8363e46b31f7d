package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/auth/password"
	"github.com/smallbiznis/payables/internal/auth/repository"
	"github.com/smallbiznis/payables/internal/auth/token"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (domain.Service, domain.Repository, *clock.FakeClock) {
	t.Helper()

	conn := testutil.NewDB(t, &domain.User{})
	repo := repository.New(conn)
	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	issuer := token.NewIssuer(config.Config{AppName: "payables", AuthJWTSecret: "test-secret", TokenTTL: 10 * time.Hour}, fc)

	svc := New(Params{
		Log:    zap.NewNop(),
		Repo:   repo,
		GenID:  testutil.NewNode(t),
		Clock:  fc,
		Issuer: issuer,
	})
	return svc, repo, fc
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username:   " Maria ",
		Password:   "correct-horse",
		FullName:   "Maria Souza",
		TaxID:      "123.456.789-00",
		Department: "Financeiro",
		Role:       "Analyst",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria", user.Username)
	assert.Equal(t, domain.RoleAnalyst, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	stored, err := repo.FindByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.True(t, password.Verify("correct-horse", stored.PasswordHash))

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Username: "MARIA", Password: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)
	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Username: "joao", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Username: "joao", Password: "long-enough", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{Username: "joao", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, user.Role)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _, fc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Username: "admin", Password: "admin-password", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "admin", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Username: "ghost", Password: "admin-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Username: "ADMIN", Password: "admin-password"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, fc.Now().Add(10*time.Hour), result.ExpiresAt)

	user, err := svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	fc.Advance(10*time.Hour + time.Second)
	_, err = svc.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLoginAcceptsLegacyBcryptHash(t *testing.T) {
	svc, repo, fc := newTestService(t)
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &domain.User{
		ID:           1,
		Username:     "legacy",
		PasswordHash: string(legacy),
		Role:         domain.RoleViewer,
		CreatedAt:    fc.Now(),
		UpdatedAt:    fc.Now(),
	}))

	result, err := svc.Login(ctx, domain.LoginRequest{Username: "legacy", Password: "old-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestListUsersOrdersByUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"zeca", "ana", "marcos"} {
		_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Username: name, Password: "password-123"})
		require.NoError(t, err)
	}
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "ana", users[0].Username)
	assert.Equal(t, "zeca", users[2].Username)
}
