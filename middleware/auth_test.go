package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/session"
	"go-storefront/utils"
)

type fakeWorkspaces map[string]*session.Workspace

func (f fakeWorkspaces) Get(_ context.Context, id string) (*session.Workspace, error) {
	ws, ok := f[id]
	if !ok {
		return nil, session.ErrSessionEnded
	}
	return ws, nil
}

func TestSessionMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret")
	ws := &session.Workspace{ID: "s1"}
	workspaces := fakeWorkspaces{"s1": ws}

	valid, err := utils.GenerateJWT("s1")
	assert.NoError(t, err)
	ended, err := utils.GenerateJWT("s2")
	assert.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"ended session", "Bearer " + ended, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Workspace
			h := SessionMiddleware(workspaces)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = WorkspaceFrom(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Same(t, ws, got)
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name     string
		hash     string
		user, pw string
		want     int
	}{
		{"disabled", "", AdminUser, "s3cret", http.StatusForbidden},
		{"wrong password", string(hash), AdminUser, "nope", http.StatusForbidden},
		{"wrong user", string(hash), "root", "s3cret", http.StatusForbidden},
		{"valid", string(hash), AdminUser, "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
			req.SetBasicAuth(tt.user, tt.pw)
			rec := httptest.NewRecorder()

			AdminMiddleware(tt.hash)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
