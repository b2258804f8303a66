package service

import (
	"context"
	"errors"
	"testing"

	"skineedipping/internal/catalog"
	"skineedipping/internal/model"
)

// =============================================================================
// SHARED MOCKS
// =============================================================================
//
// These mocks are shared by the discover and bookmark service tests in
// this package. Each test configures only the function fields it needs.

type mockFetcher struct {
	fetchItemsFn func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error)
	fetchItemFn  func(ctx context.Context, productID string) (*model.CatalogItem, error)
}

func (m *mockFetcher) FetchItems(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
	if m.fetchItemsFn != nil {
		return m.fetchItemsFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockFetcher) FetchItem(ctx context.Context, productID string) (*model.CatalogItem, error) {
	if m.fetchItemFn != nil {
		return m.fetchItemFn(ctx, productID)
	}
	return nil, model.ErrProductNotFound
}

type mockBookmarkRepository struct {
	addFn            func(ctx context.Context, userID int64, productID string) (bool, error)
	removeFn         func(ctx context.Context, userID int64, productID string) (bool, error)
	existsFn         func(ctx context.Context, userID int64, productID string) (bool, error)
	listByUserFn     func(ctx context.Context, userID int64) ([]model.Bookmark, error)
	listProductIDsFn func(ctx context.Context, userID int64) ([]string, error)
	checkBookmarksFn func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error)

	addCalls    []string
	removeCalls []string
}

func (m *mockBookmarkRepository) Add(ctx context.Context, userID int64, productID string) (bool, error) {
	m.addCalls = append(m.addCalls, productID)
	if m.addFn != nil {
		return m.addFn(ctx, userID, productID)
	}
	return true, nil
}

func (m *mockBookmarkRepository) Remove(ctx context.Context, userID int64, productID string) (bool, error) {
	m.removeCalls = append(m.removeCalls, productID)
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, productID)
	}
	return true, nil
}

func (m *mockBookmarkRepository) Exists(ctx context.Context, userID int64, productID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, productID)
	}
	return false, nil
}

func (m *mockBookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookmarkRepository) ListProductIDsByUser(ctx context.Context, userID int64) ([]string, error) {
	if m.listProductIDsFn != nil {
		return m.listProductIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookmarkRepository) CheckBookmarks(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
	if m.checkBookmarksFn != nil {
		return m.checkBookmarksFn(ctx, userID, productIDs)
	}
	return map[string]bool{}, nil
}

type mockBookmarkCache struct {
	containsAllFn func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, bool, error)
	warmFn        func(ctx context.Context, userID int64, productIDs []string) error

	warmCalls int
}

func (m *mockBookmarkCache) Add(ctx context.Context, userID int64, productID string) error {
	return nil
}

func (m *mockBookmarkCache) Remove(ctx context.Context, userID int64, productID string) error {
	return nil
}

func (m *mockBookmarkCache) ContainsAll(ctx context.Context, userID int64, productIDs []string) (map[string]bool, bool, error) {
	if m.containsAllFn != nil {
		return m.containsAllFn(ctx, userID, productIDs)
	}
	return nil, false, nil
}

func (m *mockBookmarkCache) Warm(ctx context.Context, userID int64, productIDs []string) error {
	m.warmCalls++
	if m.warmFn != nil {
		return m.warmFn(ctx, userID, productIDs)
	}
	return nil
}

func (m *mockBookmarkCache) Exists(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

func testItems() []model.CatalogItem {
	return []model.CatalogItem{
		{ID: "a", MarketName: "AK-47 | Redline", PriceAvg: 10},
		{ID: "b", MarketName: "Glock-18 | Fade", PriceAvg: 5},
		{ID: "c", MarketName: "AWP | Dragon Lore", PriceAvg: 4500},
	}
}

// =============================================================================
// BUILD VIEW TESTS
// =============================================================================

func TestDiscoverService_BuildView_SortLowToHigh(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return []model.CatalogItem{
				{ID: "a", MarketName: "AK-47 | Redline", PriceAvg: 10},
				{ID: "b", MarketName: "Glock-18 | Fade", PriceAvg: 5},
			}, nil
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{Sort: model.SortLowToHigh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(view.Items))
	}
	if view.Items[0].ID != "b" || view.Items[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", view.Items[0].ID, view.Items[1].ID)
	}
}

func TestDiscoverService_BuildView_SortHighToLow(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{Sort: model.SortHighToLow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(view.Items); i++ {
		if view.Items[i-1].PriceAvg < view.Items[i].PriceAvg {
			t.Errorf("items not in non-increasing price order at %d", i)
		}
	}
}

func TestDiscoverService_BuildView_UnknownSortKeepsOrder(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{Sort: "cheapest"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if view.Items[i].ID != id {
			t.Errorf("item[%d] = %s, want %s", i, view.Items[i].ID, id)
		}
	}
}

func TestDiscoverService_BuildView_Search(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "case-insensitive substring", search: "redline", want: []string{"a"}},
		{name: "no matches", search: "butterfly", want: []string{}},
		{name: "empty search applies no filter", search: "", want: []string{"a", "b", "c"}},
		{name: "whitespace-only applies no filter", search: "   ", want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{Search: tt.search})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(view.Items) != len(tt.want) {
				t.Fatalf("items = %d, want %d", len(view.Items), len(tt.want))
			}
			for i, id := range tt.want {
				if view.Items[i].ID != id {
					t.Errorf("item[%d] = %s, want %s", i, view.Items[i].ID, id)
				}
			}
		})
	}
}

func TestDiscoverService_BuildView_ForwardsRemoteFilters(t *testing.T) {
	var got catalog.Filters
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			got = filters
			return nil, nil
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	_, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{
		Wear:      "Factory New",
		ItemGroup: "Rifle",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Wear != "Factory New" {
		t.Errorf("wear = %q, want %q", got.Wear, "Factory New")
	}
	if got.ItemGroup != "Rifle" {
		t.Errorf("item_group = %q, want %q", got.ItemGroup, "Rifle")
	}
}

func TestDiscoverService_BuildView_UpstreamFailure(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return nil, model.ErrUpstream
		},
	}
	svc := NewDiscoverService(fetcher, &mockBookmarkRepository{}, nil)

	view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{})

	// The view must still render: no error, empty items, message set.
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Errorf("items = %d, want 0", len(view.Items))
	}
	if view.Error == "" {
		t.Error("expected error message in view")
	}
}

// =============================================================================
// BOOKMARK ANNOTATION TESTS
// =============================================================================

func TestDiscoverService_BuildView_AnonymousAllUnmarked(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	repo := &mockBookmarkRepository{
		checkBookmarksFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
			t.Error("CheckBookmarks should not be called for anonymous viewers")
			return nil, nil
		},
	}
	svc := NewDiscoverService(fetcher, repo, nil)

	view, err := svc.BuildView(context.Background(), nil, model.CatalogFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, item := range view.Items {
		if item.IsBookmarked {
			t.Errorf("item %s marked bookmarked for anonymous viewer", item.ID)
		}
	}
}

func TestDiscoverService_BuildView_AnnotatesFromRepo(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	repo := &mockBookmarkRepository{
		checkBookmarksFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
			return map[string]bool{"a": true}, nil
		},
	}
	svc := NewDiscoverService(fetcher, repo, nil)

	viewerID := int64(7)
	view, err := svc.BuildView(context.Background(), &viewerID, model.CatalogFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, item := range view.Items {
		want := item.ID == "a"
		if item.IsBookmarked != want {
			t.Errorf("item %s bookmarked = %v, want %v", item.ID, item.IsBookmarked, want)
		}
	}
}

func TestDiscoverService_BuildView_CacheHitSkipsRepo(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	repo := &mockBookmarkRepository{
		checkBookmarksFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
			t.Error("CheckBookmarks should not be called on cache hit")
			return nil, nil
		},
	}
	bc := &mockBookmarkCache{
		containsAllFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, bool, error) {
			return map[string]bool{"b": true}, true, nil
		},
	}
	svc := NewDiscoverService(fetcher, repo, bc)

	viewerID := int64(7)
	view, err := svc.BuildView(context.Background(), &viewerID, model.CatalogFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, item := range view.Items {
		want := item.ID == "b"
		if item.IsBookmarked != want {
			t.Errorf("item %s bookmarked = %v, want %v", item.ID, item.IsBookmarked, want)
		}
	}
}

func TestDiscoverService_BuildView_CacheMissWarmsCache(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	repo := &mockBookmarkRepository{
		checkBookmarksFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
			return map[string]bool{"c": true}, nil
		},
		listProductIDsFn: func(ctx context.Context, userID int64) ([]string, error) {
			return []string{"c"}, nil
		},
	}
	bc := &mockBookmarkCache{} // ContainsAll defaults to found=false
	svc := NewDiscoverService(fetcher, repo, bc)

	viewerID := int64(7)
	view, err := svc.BuildView(context.Background(), &viewerID, model.CatalogFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !view.Items[2].IsBookmarked {
		t.Error("item c should be bookmarked from the repo fallback")
	}
	if bc.warmCalls != 1 {
		t.Errorf("Warm called %d times, want 1", bc.warmCalls)
	}
}

func TestDiscoverService_BuildView_AnnotationFailureLeavesUnmarked(t *testing.T) {
	fetcher := &mockFetcher{
		fetchItemsFn: func(ctx context.Context, filters catalog.Filters) ([]model.CatalogItem, error) {
			return testItems(), nil
		},
	}
	repo := &mockBookmarkRepository{
		checkBookmarksFn: func(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewDiscoverService(fetcher, repo, nil)

	viewerID := int64(7)
	view, err := svc.BuildView(context.Background(), &viewerID, model.CatalogFilters{})

	// The listings still render; only the annotation is lost.
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(view.Items))
	}
	for _, item := range view.Items {
		if item.IsBookmarked {
			t.Errorf("item %s should be unmarked after annotation failure", item.ID)
		}
	}
}
