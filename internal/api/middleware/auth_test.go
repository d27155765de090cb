package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error) {
	return user, nil
}

func requireAdminRecorder(t *testing.T, repo *stubUserRepo, userID string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	reached := false
	handler := RequireAdmin(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/benchmarks", nil)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDCtxKey, userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, &reached
}

func TestRequireAdminAllowsStoreAdmin(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Role: model.RoleAdmin},
	}}

	rec, reached := requireAdminRecorder(t, repo, "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

// A token minted while the user was an admin must not grant access after
// the store says otherwise.
func TestRequireAdminIgnoresStaleClaim(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Role: model.RoleUser},
	}}

	handler := RequireAdmin(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for non-admins")
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/benchmarks", nil)
	ctx := context.WithValue(req.Context(), UserIDCtxKey, "u1")
	ctx = context.WithValue(ctx, UserRoleCtxKey, model.RoleAdmin) // stale hint
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminUnknownUser(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}

	rec, reached := requireAdminRecorder(t, repo, "ghost")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestRequireAdminMissingContext(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}

	rec, reached := requireAdminRecorder(t, repo, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}
