package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"skineedipping/internal/cache"
	"skineedipping/internal/catalog"
	"skineedipping/internal/model"
	"skineedipping/internal/repository"
)

// DiscoverService builds the discover view: one page of live catalog
// listings filtered, sorted and annotated with the viewer's bookmarks.
type DiscoverService struct {
	fetcher       catalog.Fetcher
	bookmarkRepo  repository.BookmarkRepository
	bookmarkCache cache.BookmarkCache
}

// NewDiscoverService wires the view builder.
// bookmarkCache may be nil; annotation then always hits the repository.
func NewDiscoverService(fetcher catalog.Fetcher, bookmarkRepo repository.BookmarkRepository, bookmarkCache cache.BookmarkCache) *DiscoverService {
	return &DiscoverService{
		fetcher:       fetcher,
		bookmarkRepo:  bookmarkRepo,
		bookmarkCache: bookmarkCache,
	}
}

// BuildView assembles one discover response. viewerID is nil for
// anonymous requests. An upstream catalog failure degrades to an empty
// item list plus an error message; it is never surfaced as a fault.
func (s *DiscoverService) BuildView(ctx context.Context, viewerID *int64, filters model.CatalogFilters) (*model.DiscoverView, error) {
	view := &model.DiscoverView{
		Items:          []model.DiscoverItem{},
		AppliedFilters: filters,
	}

	items, err := s.fetcher.FetchItems(ctx, catalog.Filters{
		Wear:      filters.Wear,
		ItemGroup: filters.ItemGroup,
	})
	if err != nil {
		log.Printf("[Discover] catalog fetch failed: %v", err)
		view.Error = "The catalog is temporarily unavailable. Please try again later."
		return view, nil
	}

	items = applySearch(items, filters.Search)
	applySort(items, filters.Sort)

	view.Items = make([]model.DiscoverItem, len(items))
	for i, item := range items {
		view.Items[i] = model.DiscoverItem{CatalogItem: item}
	}

	if viewerID != nil {
		s.annotateBookmarks(ctx, *viewerID, view.Items)
	}

	return view, nil
}

// applySearch filters items by a case-insensitive substring match on the
// market name. An empty or whitespace-only term applies no filter at all.
func applySearch(items []model.CatalogItem, search string) []model.CatalogItem {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return items
	}

	filtered := items[:0:0]
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.MarketName), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// applySort orders items by average price. The sort is stable so ties
// keep their fetch order; unrecognized values leave the order untouched.
func applySort(items []model.CatalogItem, sortOrder string) {
	switch sortOrder {
	case model.SortHighToLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PriceAvg > items[j].PriceAvg
		})
	case model.SortLowToHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PriceAvg < items[j].PriceAvg
		})
	}
}

// annotateBookmarks sets IsBookmarked from the cache when the user has a
// warm entry, otherwise from the authoritative store (which also warms
// the cache for the next request). Annotation failures leave items
// unmarked rather than failing the view.
func (s *DiscoverService) annotateBookmarks(ctx context.Context, userID int64, items []model.DiscoverItem) {
	if len(items) == 0 {
		return
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ID
	}

	bookmarked, ok := s.lookupCached(ctx, userID, productIDs)
	if !ok {
		var err error
		bookmarked, err = s.bookmarkRepo.CheckBookmarks(ctx, userID, productIDs)
		if err != nil {
			log.Printf("[Discover] bookmark check failed: user=%d err=%v", userID, err)
			return
		}
		s.warmCache(ctx, userID)
	}

	for i := range items {
		items[i].IsBookmarked = bookmarked[items[i].ID]
	}
}

// lookupCached consults the bookmark cache; ok=false means fall back.
func (s *DiscoverService) lookupCached(ctx context.Context, userID int64, productIDs []string) (map[string]bool, bool) {
	if s.bookmarkCache == nil {
		return nil, false
	}

	result, found, err := s.bookmarkCache.ContainsAll(ctx, userID, productIDs)
	if err != nil {
		log.Printf("[Discover] cache lookup failed: user=%d err=%v", userID, err)
		return nil, false
	}
	return result, found
}

// warmCache populates the user's cache from postgres, best effort.
func (s *DiscoverService) warmCache(ctx context.Context, userID int64) {
	if s.bookmarkCache == nil {
		return
	}

	productIDs, err := s.bookmarkRepo.ListProductIDsByUser(ctx, userID)
	if err != nil {
		log.Printf("[Discover] cache warm skipped: user=%d err=%v", userID, err)
		return
	}
	if err := s.bookmarkCache.Warm(ctx, userID, productIDs); err != nil {
		log.Printf("[Discover] cache warm failed: user=%d err=%v", userID, err)
	}
}
