package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"skineedipping/internal/config"
	"skineedipping/internal/httputil"
	"skineedipping/internal/model"
	"skineedipping/internal/service"
	"skineedipping/internal/session"
	"skineedipping/internal/transport/http/middleware"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	sessions    session.Store
	config      *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, sessions session.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		config:      cfg,
	}
}

// Register handles user sign-up
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			httputil.WriteConflict(w, "Username already exists")
			return
		}
		log.Printf("[ERROR] Register handler: username=%s err=%v", req.Username, err)
		httputil.WriteInternalError(w, "Failed to register")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and starts a session. The opaque token is
// delivered only in an HttpOnly cookie, never in the response body.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		log.Printf("[ERROR] Login handler: username=%s err=%v", req.Username, err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	token, err := h.sessions.Create(r.Context(), model.Identity{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		log.Printf("[ERROR] Login handler: create session user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}

	h.setSessionCookie(w, token, h.config.SessionMaxAge)
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Logout destroys the current session.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.destroySession(w, r)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// LogoutRedirect is the browser-facing logout link: it destroys the
// session and sends the user back to the login page.
// GET /logout
func (h *AuthHandler) LogoutRedirect(w http.ResponseWriter, r *http.Request) {
	h.destroySession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LogoutAll destroys every session of the authenticated user.
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.sessions.DestroyAllForUser(r.Context(), userID); err != nil {
		log.Printf("[ERROR] LogoutAll handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to logout from all devices")
		return
	}

	h.setSessionCookie(w, "", -1)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out from all devices",
	})
}

// Me returns the currently authenticated user
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Me handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// destroySession removes the session behind the request's cookie, if any,
// and clears the cookie. An absent or stale cookie is not an error.
func (h *AuthHandler) destroySession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		// Best effort; the cookie is cleared regardless.
		_ = h.sessions.Destroy(r.Context(), cookie.Value)
	}
	h.setSessionCookie(w, "", -1)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
