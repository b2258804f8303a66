package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skineedipping/internal/httputil"
	"skineedipping/internal/model"
	"skineedipping/internal/service"
	"skineedipping/internal/transport/http/middleware"
)

// ProfileHandler serves profile viewing and editing endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetUser returns any user's public profile.
// GET /users/{userID}
func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetUser handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetMine returns the authenticated user's own profile.
// GET /me/profile
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetMine handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateDescription writes the description field only; a concurrent
// picture upload is never clobbered.
// PUT /me/profile
func (h *ProfileHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.profileService.UpdateDescription(r.Context(), userID, req.Description); err != nil {
		log.Printf("[ERROR] UpdateDescription handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to update description")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] UpdateDescription handler: reload user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdatePicture accepts a multipart upload, normalizes it and writes the
// picture fields only.
// POST /me/profile/picture
func (h *ProfileHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := model.MaxProfilePicSizeBytes + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		httputil.WriteBadRequest(w, "Picture exceeds 5MB limit or form data is invalid")
		return
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		httputil.WriteBadRequest(w, "Picture file is required")
		return
	}
	defer file.Close()

	upload, err := h.profileService.UpdatePicture(r.Context(), userID, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Picture exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] UpdatePicture handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to update picture")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, upload)
}
