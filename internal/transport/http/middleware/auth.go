package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"skineedipping/internal/httputil"
	"skineedipping/internal/model"
	"skineedipping/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"

	// IdentityKey is the context key for the full authenticated identity
	IdentityKey contextKey = "identity"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// LoginPath is where unauthenticated browser requests are sent.
const LoginPath = "/login"

// RequireSession rejects requests without a valid session.
// The token comes from the session cookie; an unknown or expired token is
// treated the same as no token at all. API clients get a 401 JSON
// envelope; browser form posts (marked by the redirect parameter) are
// sent to the login page instead, with no mutation attempted.
func RequireSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveSession(r, store)
			if err != nil {
				if errors.Is(err, model.ErrUnauthenticated) {
					if isBrowserRequest(r) {
						http.Redirect(w, r, LoginPath, http.StatusSeeOther)
						return
					}
					httputil.WriteUnauthorized(w, "Not authenticated")
					return
				}
				log.Printf("[ERROR] RequireSession middleware: err=%v", err)
				httputil.WriteInternalError(w, "Failed to resolve session")
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// OptionalSession attaches the identity when a valid session cookie is
// present and continues anonymously otherwise. Used on views that render
// for everyone but personalize for signed-in users.
func OptionalSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveSession(r, store)
			if err == nil && identity != nil {
				r = r.WithContext(withIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveSession maps the request's cookie to an identity. Both a missing
// cookie and a token the store no longer knows resolve to
// model.ErrUnauthenticated.
func resolveSession(r *http.Request, store session.Store) (*model.Identity, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, model.ErrUnauthenticated
	}

	identity, err := store.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, model.ErrUnauthenticated
	}
	return identity, nil
}

// isBrowserRequest reports whether the request came from a browser form
// rather than an API client. Form posts carry the redirect parameter so
// the handler can send the user back to the page they came from.
func isBrowserRequest(r *http.Request) bool {
	return r.URL.Query().Get("redirect") != ""
}

func withIdentity(ctx context.Context, identity *model.Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	return context.WithValue(ctx, IdentityKey, *identity)
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or 0 and false if not found
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetIdentityFromContext extracts the full identity from the request context.
func GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(model.Identity)
	return identity, ok
}
