package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/fourx/backend/internal/models"
)

type stubValidator struct {
	userID uuid.UUID
	role   string
	err    error
}

func (s *stubValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	if s.err != nil {
		return uuid.Nil, "", s.err
	}
	return s.userID, s.role, nil
}

type stubLookup struct {
	users map[uuid.UUID]*models.User
}

func (s *stubLookup) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.users[id], nil
}

func okHandler(t *testing.T, wantUser uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromCtx(r.Context())
		if u == nil || u.ID != wantUser {
			t.Errorf("context user = %v, want %s", u, wantUser)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuthHappyPath(t *testing.T) {
	userID := uuid.New()
	lookup := &stubLookup{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Role: models.RoleUser},
	}}
	mw := JWTAuth(&stubValidator{userID: userID, role: models.RoleUser}, lookup)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	mw(okHandler(t, userID)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{userID: userID, role: models.RoleUser}
	withUser := &stubLookup{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Role: models.RoleUser},
	}}

	cases := []struct {
		name      string
		header    string
		validator TokenValidator
		lookup    UserLookup
	}{
		{name: "missing header", header: "", validator: valid, lookup: withUser},
		{name: "not bearer", header: "Basic abc", validator: valid, lookup: withUser},
		{name: "bad token", header: "Bearer bad", validator: &stubValidator{err: errors.New("expired")}, lookup: withUser},
		{name: "deleted user", header: "Bearer sometoken", validator: valid, lookup: &stubLookup{users: map[uuid.UUID]*models.User{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			called := false
			JWTAuth(tc.validator, tc.lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if called {
				t.Error("handler ran despite failed auth")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Plain user is forbidden.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: uuid.New(), Role: models.RoleUser}))
	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}

	// No user at all is unauthorized.
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	// Admin passes.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: uuid.New(), Role: models.RoleAdmin}))
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}
