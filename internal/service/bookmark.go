package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"skineedipping/internal/catalog"
	"skineedipping/internal/model"
	"skineedipping/internal/queue"
	"skineedipping/internal/repository"
)

// ToggleRecorder is the subset of the metrics collector used here.
type ToggleRecorder interface {
	RecordBookmarkToggle(action string)
}

// BookmarkService handles the add-if-absent/remove-if-present toggle and
// the bookmark listing for the profile page.
type BookmarkService struct {
	repo      repository.BookmarkRepository
	fetcher   catalog.Fetcher
	publisher queue.Publisher
	metrics   ToggleRecorder
}

// NewBookmarkService wires the toggle handler.
// publisher and metrics may be nil (e.g. in tests).
func NewBookmarkService(repo repository.BookmarkRepository, fetcher catalog.Fetcher, publisher queue.Publisher, metrics ToggleRecorder) *BookmarkService {
	return &BookmarkService{
		repo:      repo,
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Toggle flips bookmark membership for (userID, productID).
// The product must still exist in the live catalog; a vanished product
// fails with ErrProductNotFound and no mutation. Two calls in immediate
// succession toggle twice (add then remove), never double-add: the
// storage-level unique constraint turns a lost insert race into an
// idempotent "added" outcome.
func (s *BookmarkService) Toggle(ctx context.Context, userID int64, productID string) (*model.ToggleResult, error) {
	// Validate against the live catalog before touching storage.
	if _, err := s.fetcher.FetchItem(ctx, productID); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("validate product: %w", err)
	}

	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("check bookmark: %w", err)
	}

	if exists {
		removed, err := s.repo.Remove(ctx, userID, productID)
		if err != nil {
			return nil, fmt.Errorf("remove bookmark: %w", err)
		}
		if !removed {
			// A concurrent toggle got there first; membership is off
			// either way.
			log.Printf("[Bookmark] Remove raced: user=%d product=%s", userID, productID)
		}
		s.afterToggle(ctx, userID, productID, model.ToggleRemoved)
		return &model.ToggleResult{
			Action:  model.ToggleRemoved,
			Message: "Bookmark removed",
		}, nil
	}

	inserted, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}
	if !inserted {
		log.Printf("[Bookmark] Add raced (already bookmarked): user=%d product=%s", userID, productID)
	}
	s.afterToggle(ctx, userID, productID, model.ToggleAdded)
	return &model.ToggleResult{
		Action:  model.ToggleAdded,
		Message: "Bookmark added",
	}, nil
}

// afterToggle publishes the cache-maintenance event and counts the
// outcome. Both are best effort; the database row is already final.
func (s *BookmarkService) afterToggle(ctx context.Context, userID int64, productID, action string) {
	if s.metrics != nil {
		s.metrics.RecordBookmarkToggle(action)
	}

	if s.publisher == nil {
		return
	}

	var event queue.BookmarkEvent
	if action == model.ToggleAdded {
		event = queue.NewBookmarkAddedEvent(userID, productID)
	} else {
		event = queue.NewBookmarkRemovedEvent(userID, productID)
	}

	if _, err := s.publisher.Publish(ctx, queue.StreamBookmarks, event); err != nil {
		log.Printf("[Bookmark] publish failed: user=%d product=%s err=%v", userID, productID, err)
	}
}

// ListForUser returns the user's bookmarks enriched with live catalog
// data. Items that vanished from the catalog are still listed with their
// stored id so the user can unbookmark them.
//
// Each bookmark costs one point lookup against the catalog: the API has
// no id-batch query, so n bookmarks means n FetchItem calls through the
// client's shared rate limiter. Acceptable while bookmark lists stay
// small; revisit if the per-user count grows past a page.
func (s *BookmarkService) ListForUser(ctx context.Context, userID int64) ([]model.BookmarkedItem, error) {
	bookmarks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	result := make([]model.BookmarkedItem, len(bookmarks))
	for i, b := range bookmarks {
		result[i] = model.BookmarkedItem{Bookmark: b}

		item, err := s.fetcher.FetchItem(ctx, b.ProductID)
		if err != nil {
			// Vanished or upstream down: keep the bare bookmark.
			continue
		}
		result[i].Item = item
	}

	return result, nil
}
