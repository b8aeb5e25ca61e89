package service

import (
	"context"
	"testing"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture(t *testing.T) (AuthService, repository.UsersRepository) {
	t.Helper()
	store := repository.NewMemoryBackedStore()
	auth := NewAuthService(store.Users, "test-secret", time.Hour, zap.NewNop())
	return auth, store.Users
}

func registerAndApprove(t *testing.T, auth AuthService, users repository.UsersRepository, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := auth.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter2!",
		Role:     role,
		FullName: "Test " + username,
	})
	require.NoError(t, err)
	require.NoError(t, users.ApproveUser(context.Background(), u.UserID, true))
	return u
}

func TestRegister_HashesPassword(t *testing.T) {
	auth, _ := newAuthFixture(t)

	u, err := auth.Register(context.Background(), RegisterRequest{
		Username: "tina",
		Email:    "tina@example.com",
		Password: "hunter2!",
		Role:     domain.RoleTenant,
		FullName: "Tina",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, []byte("hunter2!"), u.PasswordHash)
	assert.Equal(t, HashPassword("hunter2!"), u.PasswordHash)
	assert.False(t, u.Approved)
}

func TestRegister_RejectsEmptyPassword(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Register(context.Background(), RegisterRequest{
		Username: "tina",
		Email:    "tina@example.com",
		Role:     domain.RoleTenant,
		FullName: "Tina",
	})
	require.Error(t, err)
}

func TestLogin_RoundTrip(t *testing.T) {
	auth, users := newAuthFixture(t)
	u := registerAndApprove(t, auth, users, "tina", domain.RoleTenant)

	resp, err := auth.Login(context.Background(), LoginRequest{
		Username: "tina",
		Password: "hunter2!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, u.UserID, resp.User.UserID)

	claims, err := auth.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, claims.UserID)
	assert.Equal(t, domain.RoleTenant, claims.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	auth, users := newAuthFixture(t)
	registerAndApprove(t, auth, users, "tina", domain.RoleTenant)

	_, err := auth.Login(context.Background(), LoginRequest{Username: "tina", Password: "wrong"})
	require.ErrorIs(t, err, ErrBadCredentials)

	// 未知用户和错密码不可区分
	_, err = auth.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_UnapprovedBlocked(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Register(context.Background(), RegisterRequest{
		Username: "pending",
		Email:    "pending@example.com",
		Password: "hunter2!",
		Role:     domain.RoleLandlord,
		FullName: "Pending",
	})
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), LoginRequest{Username: "pending", Password: "hunter2!"})
	require.ErrorIs(t, err, ErrNotApproved)
}

func TestLogin_AdminSkipsApprovalGate(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Register(context.Background(), RegisterRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "hunter2!",
		Role:     domain.RoleAdmin,
		FullName: "Root",
	})
	require.NoError(t, err)

	resp, err := auth.Login(context.Background(), LoginRequest{Username: "root", Password: "hunter2!"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
}

func TestParseToken_RejectsGarbageAndWrongKey(t *testing.T) {
	auth, users := newAuthFixture(t)
	registerAndApprove(t, auth, users, "tina", domain.RoleTenant)

	_, err := auth.ParseToken("not-a-token")
	require.Error(t, err)

	other := NewAuthService(users, "different-secret", time.Hour, zap.NewNop())
	resp, err := auth.Login(context.Background(), LoginRequest{Username: "tina", Password: "hunter2!"})
	require.NoError(t, err)

	_, err = other.ParseToken(resp.Token)
	require.Error(t, err, "token signed with another secret must not parse")
}
