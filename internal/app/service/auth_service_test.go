package service

import (
	"context"
	"testing"
	"time"
	"vibebench/internal/common"
	"vibebench/internal/common/security"
	"vibebench/internal/domain/model"
	"vibebench/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
}

func TestRoleForEmail(t *testing.T) {
	allowList := []string{"admin@vibebench.ai", "ops@vibebench.ai"}

	assert.Equal(t, model.RoleAdmin, RoleForEmail("admin@vibebench.ai", allowList))
	assert.Equal(t, model.RoleAdmin, RoleForEmail("ADMIN@vibebench.ai", allowList))
	assert.Equal(t, model.RoleUser, RoleForEmail("dev@example.com", allowList))
	assert.Equal(t, model.RoleUser, RoleForEmail("dev@example.com", nil))
}

func TestSignupAssignsRoleFromAllowList(t *testing.T) {
	initTestJWT(t)
	repo := newFakeUserRepo()
	s := NewAuthService(repo, []string{"admin@vibebench.ai"})
	ctx := context.Background()

	adminResp, err := s.Signup(ctx, SignupRequest{Email: "admin@vibebench.ai", Name: "Admin", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, adminResp.User.Role)
	assert.NotEmpty(t, adminResp.Token)
	assert.Empty(t, adminResp.User.HashedPassword, "hash never leaves the service")

	userResp, err := s.Signup(ctx, SignupRequest{Email: "dev@example.com", Name: "Dev", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, userResp.User.Role)
}

func TestSignupDuplicateEmail(t *testing.T) {
	initTestJWT(t)
	s := NewAuthService(newFakeUserRepo(), nil)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Email: "dev@example.com", Name: "Dev", Password: "hunter22"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, SignupRequest{Email: "dev@example.com", Name: "Dev Again", Password: "hunter22"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin(t *testing.T) {
	initTestJWT(t)
	s := NewAuthService(newFakeUserRepo(), nil)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Email: "dev@example.com", Name: "Dev", Password: "hunter22"})
	require.NoError(t, err)

	resp, err := s.Login(ctx, LoginRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.HashedPassword)

	// Repeated logins succeed; blanking the hash on a response must not
	// reach back into the stored row.
	_, err = s.Login(ctx, LoginRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = s.Login(ctx, LoginRequest{Email: "dev@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// Unknown account reads the same as a bad password.
	_, err = s.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
