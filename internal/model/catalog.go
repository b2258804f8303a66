package model

import "errors"

// CatalogItem is a listing fetched from the remote pricing API.
// Items are transient: fetched fresh per request and never persisted,
// so ID is only ever compared by value against bookmark rows.
type CatalogItem struct {
	ID         string  `json:"id"`
	MarketName string  `json:"market_name"`
	PriceAvg   float64 `json:"price_avg"`
	Wear       string  `json:"wear"`
	ItemGroup  string  `json:"item_group"`
	ImageURL   string  `json:"image_url"`
}

// Sort orders accepted by the discover view. Any other value (including
// empty) leaves items in the order the catalog returned them.
const (
	SortHighToLow = "High to Low"
	SortLowToHigh = "Low to High"
)

// CatalogFilters are the discover query parameters. Wear and ItemGroup
// are forwarded verbatim to the remote API; Search and Sort are applied
// locally.
type CatalogFilters struct {
	Wear      string `json:"wear,omitempty"`
	ItemGroup string `json:"item_group,omitempty"`
	Search    string `json:"search,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

// DiscoverItem is a catalog item annotated with the viewer's bookmark state.
type DiscoverItem struct {
	CatalogItem
	IsBookmarked bool `json:"is_bookmarked"`
}

// DiscoverView is the full result of one discover request. Error is set
// when the upstream catalog failed; Items is empty in that case but the
// view still renders.
type DiscoverView struct {
	Items          []DiscoverItem `json:"items"`
	AppliedFilters CatalogFilters `json:"applied_filters"`
	Error          string         `json:"error,omitempty"`
}

var (
	// ErrUpstream is returned when the remote catalog API fails
	// (network error, timeout, non-2xx status or malformed payload).
	ErrUpstream = errors.New("catalog upstream error")
)
