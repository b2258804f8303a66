// Package catalog talks to the remote skin-pricing API. Items are never
// persisted locally; every request fetches fresh listings.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"skineedipping/internal/model"
)

// Filters are the parameters forwarded verbatim to the remote API.
type Filters struct {
	Wear      string
	ItemGroup string
}

// Fetcher is the catalog client interface consumed by the services.
type Fetcher interface {
	// FetchItems returns one page of listings matching the filters.
	FetchItems(ctx context.Context, filters Filters) ([]model.CatalogItem, error)

	// FetchItem returns the live listing for a product id, or
	// model.ErrProductNotFound when the catalog no longer has it.
	FetchItem(ctx context.Context, productID string) (*model.CatalogItem, error)
}

// MetricsRecorder is the subset of the metrics collector the client uses.
type MetricsRecorder interface {
	RecordCatalogSuccess()
	RecordCatalogFailure()
	RecordCatalogLatency(d time.Duration)
}

// HTTPClient implements Fetcher against the pricing API over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	limiter    *rate.Limiter
	metrics    MetricsRecorder
}

// ClientConfig holds the outbound client settings.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	PageSize   int
	RatePerSec float64
	RateBurst  int
}

// NewHTTPClient creates a rate-limited catalog client.
// metrics may be nil (e.g. in tests).
func NewHTTPClient(cfg ClientConfig, metrics MetricsRecorder) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		metrics:    metrics,
	}
}

// apiItem is the wire format of one listing from the pricing API.
type apiItem struct {
	ID         string  `json:"id"`
	MarketName string  `json:"market_name"`
	AvgPrice   float64 `json:"avg_price"`
	Wear       string  `json:"wear"`
	ItemGroup  string  `json:"item_group"`
	Image      string  `json:"image"`
}

func (i apiItem) toModel() model.CatalogItem {
	return model.CatalogItem{
		ID:         i.ID,
		MarketName: i.MarketName,
		PriceAvg:   i.AvgPrice,
		Wear:       i.Wear,
		ItemGroup:  i.ItemGroup,
		ImageURL:   i.Image,
	}
}

// FetchItems requests one page of listings.
// Every failure mode wraps model.ErrUpstream so callers can degrade
// uniformly (timeouts included).
func (c *HTTPClient) FetchItems(ctx context.Context, filters Filters) ([]model.CatalogItem, error) {
	params := url.Values{}
	if filters.Wear != "" {
		params.Set("wear", filters.Wear)
	}
	if filters.ItemGroup != "" {
		params.Set("item_group", filters.ItemGroup)
	}
	params.Set("limit", strconv.Itoa(c.pageSize))

	items, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchItem requests a single listing by product id.
func (c *HTTPClient) FetchItem(ctx context.Context, productID string) (*model.CatalogItem, error) {
	params := url.Values{}
	params.Set("id", productID)
	params.Set("limit", "1")

	items, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == productID {
			return &items[i], nil
		}
	}
	return nil, model.ErrProductNotFound
}

// get performs one API round trip and decodes the listing array.
func (c *HTTPClient) get(ctx context.Context, params url.Values) ([]model.CatalogItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", model.ErrUpstream, err)
	}

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", model.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(time.Since(startTime))
		log.Printf("[Catalog] Fetch FAILED: err=%v", err)
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordFailure(time.Since(startTime))
		log.Printf("[Catalog] Fetch FAILED: status=%d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", model.ErrUpstream, resp.StatusCode)
	}

	var wire []apiItem
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		c.recordFailure(time.Since(startTime))
		log.Printf("[Catalog] Fetch FAILED: parse err=%v", err)
		return nil, fmt.Errorf("%w: decode payload: %v", model.ErrUpstream, err)
	}

	c.recordSuccess(time.Since(startTime))
	log.Printf("[Catalog] Fetch OK: items=%d duration=%v", len(wire), time.Since(startTime))

	items := make([]model.CatalogItem, len(wire))
	for i, w := range wire {
		items[i] = w.toModel()
	}
	return items, nil
}

func (c *HTTPClient) recordSuccess(d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCatalogSuccess()
	c.metrics.RecordCatalogLatency(d)
}

func (c *HTTPClient) recordFailure(d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCatalogFailure()
	c.metrics.RecordCatalogLatency(d)
}
