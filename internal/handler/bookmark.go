package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"skineedipping/internal/httputil"
	"skineedipping/internal/model"
	"skineedipping/internal/service"
	"skineedipping/internal/transport/http/middleware"
)

// BookmarkHandler serves the bookmark toggle and listing endpoints.
type BookmarkHandler struct {
	bookmarkService *service.BookmarkService
}

func NewBookmarkHandler(bookmarkService *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// Toggle flips the bookmark for the authenticated user. A single endpoint
// covers both directions; the response says which way it went.
//
// Browser forms pass ?redirect= to get a 303 back to the page they came
// from, with a bookmark=added|removed query parameter appended so the
// page can show the outcome.
// POST /bookmarks/{productID}
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteBadRequest(w, "Product ID is required")
		return
	}

	result, err := h.bookmarkService.Toggle(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not Found")
			return
		}
		if errors.Is(err, model.ErrUpstream) {
			log.Printf("[ERROR] Toggle handler: user=%d product=%s err=%v", userID, productID, err)
			httputil.WriteError(w, http.StatusBadGateway, httputil.ErrCodeUpstream, "The catalog is temporarily unavailable")
			return
		}
		log.Printf("[ERROR] Toggle handler: user=%d product=%s err=%v", userID, productID, err)
		httputil.WriteInternalError(w, "Failed to toggle bookmark")
		return
	}

	if redirect := safeRedirectTarget(r.URL.Query().Get("redirect")); redirect != "" {
		http.Redirect(w, r, appendBookmarkParam(redirect, result.Action), http.StatusSeeOther)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// List returns the authenticated user's bookmarks enriched with live
// catalog data.
// GET /me/bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	items, err := h.bookmarkService.ListForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] List bookmarks handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list bookmarks")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookmarks": items,
		"count":     len(items),
	})
}

// safeRedirectTarget allows only same-site relative paths, so the toggle
// endpoint cannot be used as an open redirect.
func safeRedirectTarget(target string) string {
	if target == "" {
		return ""
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	return target
}

// appendBookmarkParam adds bookmark=<action> to the redirect target,
// preserving any query string it already carries.
func appendBookmarkParam(target, action string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("bookmark", action)
	u.RawQuery = q.Encode()
	return u.String()
}
