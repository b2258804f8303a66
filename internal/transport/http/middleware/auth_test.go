package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"skineedipping/internal/model"
)

type mockStore struct {
	resolveFn func(ctx context.Context, token string) (*model.Identity, error)
}

func (m *mockStore) Create(ctx context.Context, identity model.Identity) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockStore) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, token)
	}
	return nil, nil
}

func (m *mockStore) Destroy(ctx context.Context, token string) error { return nil }

func (m *mockStore) DestroyAllForUser(ctx context.Context, userID int64) error { return nil }

func identityHandler(t *testing.T, wantID int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Error("expected user id in context")
		}
		if userID != wantID {
			t.Errorf("user id = %d, want %d", userID, wantID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_ValidCookie(t *testing.T) {
	store := &mockStore{
		resolveFn: func(ctx context.Context, token string) (*model.Identity, error) {
			if token != "valid-token" {
				return nil, nil
			}
			return &model.Identity{UserID: 42, Username: "testuser"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	RequireSession(store)(identityHandler(t, 42)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireSession_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		store  *mockStore
	}{
		{
			name:   "no cookie",
			cookie: "",
			store:  &mockStore{},
		},
		{
			name:   "unknown token",
			cookie: "stale-token",
			store:  &mockStore{}, // Resolve defaults to anonymous
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			})
			RequireSession(tt.store)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireSession_BrowserFormRedirectsToLogin(t *testing.T) {
	// An anonymous browser form post carries the redirect parameter; it
	// must land on the login page, not a JSON envelope, and the protected
	// handler must never run.
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/p1?redirect=/discover", nil)
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})
	RequireSession(&mockStore{})(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("location = %q, want %q", loc, LoginPath)
	}
}

func TestRequireSession_StoreErrorIs500(t *testing.T) {
	store := &mockStore{
		resolveFn: func(ctx context.Context, token string) (*model.Identity, error) {
			return nil, errors.New("redis down")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "some-token"})
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})
	RequireSession(store)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestOptionalSession_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Error("anonymous request should carry no user id")
		}
		w.WriteHeader(http.StatusOK)
	})
	OptionalSession(&mockStore{})(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOptionalSession_WithSession(t *testing.T) {
	store := &mockStore{
		resolveFn: func(ctx context.Context, token string) (*model.Identity, error) {
			return &model.Identity{UserID: 7, Username: "testuser"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	OptionalSession(store)(identityHandler(t, 7)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOptionalSession_StoreErrorContinuesAnonymous(t *testing.T) {
	store := &mockStore{
		resolveFn: func(ctx context.Context, token string) (*model.Identity, error) {
			return nil, errors.New("redis down")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Error("failed resolve should fall back to anonymous")
		}
		w.WriteHeader(http.StatusOK)
	})
	OptionalSession(store)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
