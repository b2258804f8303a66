package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"skineedipping/internal/cache"
	"skineedipping/internal/queue"
)

// BookmarkLister abstracts the repository read the worker needs when a
// user's cache has to be rebuilt from the authoritative store.
type BookmarkLister interface {
	// ListProductIDsByUser returns all product ids the user has bookmarked.
	ListProductIDsByUser(ctx context.Context, userID int64) ([]string, error)
}

// Handler applies bookmark events from the queue to the bookmark cache.
type Handler struct {
	bookmarkCache cache.BookmarkCache
	lister        BookmarkLister
}

// NewHandler creates a new event handler.
func NewHandler(bookmarkCache cache.BookmarkCache, lister BookmarkLister) *Handler {
	return &Handler{
		bookmarkCache: bookmarkCache,
		lister:        lister,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.BookmarkEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventBookmarkAdded:
		err = h.handleAdded(ctx, event)
	case queue.EventBookmarkRemoved:
		err = h.handleRemoved(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleAdded inserts the product into the user's cache, rebuilding the
// whole cache from postgres when the add cannot be applied.
func (h *Handler) handleAdded(ctx context.Context, event queue.BookmarkEvent) error {
	log.Printf("[Worker] BookmarkAdded: user=%d product=%s", event.UserID, event.ProductID)

	if err := h.bookmarkCache.Add(ctx, event.UserID, event.ProductID); err != nil {
		// Cache in an unknown state: rebuild from the authoritative store.
		return h.rebuild(ctx, event.UserID)
	}
	return nil
}

// handleRemoved deletes the product from the user's cache.
func (h *Handler) handleRemoved(ctx context.Context, event queue.BookmarkEvent) error {
	log.Printf("[Worker] BookmarkRemoved: user=%d product=%s", event.UserID, event.ProductID)

	if err := h.bookmarkCache.Remove(ctx, event.UserID, event.ProductID); err != nil {
		return h.rebuild(ctx, event.UserID)
	}
	return nil
}

// rebuild replaces a user's cache with the product ids from postgres.
func (h *Handler) rebuild(ctx context.Context, userID int64) error {
	productIDs, err := h.lister.ListProductIDsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list bookmarks for rebuild: %w", err)
	}

	if err := h.bookmarkCache.Warm(ctx, userID, productIDs); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	log.Printf("[Worker] Cache rebuilt: user=%d bookmarks=%d", userID, len(productIDs))
	return nil
}
