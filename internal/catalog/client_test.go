package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skineedipping/internal/model"
)

func newTestClient(serverURL string) *HTTPClient {
	return NewHTTPClient(ClientConfig{
		BaseURL:    serverURL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		PageSize:   50,
		RatePerSec: 1000, // don't throttle tests
		RateBurst:  1000,
	}, nil)
}

func TestHTTPClient_FetchItems(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"key":        r.URL.Query().Get("key"),
			"wear":       r.URL.Query().Get("wear"),
			"item_group": r.URL.Query().Get("item_group"),
			"limit":      r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "p1", "market_name": "AK-47 | Redline", "avg_price": 24.5, "wear": "Field-Tested", "item_group": "Rifle", "image": "https://img.example.com/p1.png"},
			{"id": "p2", "market_name": "Glock-18 | Fade", "avg_price": 310.0, "wear": "Factory New", "item_group": "Pistol", "image": "https://img.example.com/p2.png"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	items, err := client.FetchItems(context.Background(), Filters{
		Wear:      "Field-Tested",
		ItemGroup: "Rifle",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != "p1" || items[0].MarketName != "AK-47 | Redline" {
		t.Errorf("item[0] = %+v", items[0])
	}
	if items[0].PriceAvg != 24.5 {
		t.Errorf("price_avg = %v, want 24.5", items[0].PriceAvg)
	}
	if items[0].ImageURL != "https://img.example.com/p1.png" {
		t.Errorf("image_url = %q", items[0].ImageURL)
	}

	// Filters go through verbatim, plus key and page size.
	if gotQuery["key"] != "test-key" {
		t.Errorf("key = %q, want %q", gotQuery["key"], "test-key")
	}
	if gotQuery["wear"] != "Field-Tested" {
		t.Errorf("wear = %q, want %q", gotQuery["wear"], "Field-Tested")
	}
	if gotQuery["item_group"] != "Rifle" {
		t.Errorf("item_group = %q, want %q", gotQuery["item_group"], "Rifle")
	}
	if gotQuery["limit"] != "50" {
		t.Errorf("limit = %q, want %q", gotQuery["limit"], "50")
	}
}

func TestHTTPClient_FetchItems_OmitsEmptyFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("wear") || r.URL.Query().Has("item_group") {
			t.Error("empty filters should not be sent as query parameters")
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	items, err := client.FetchItems(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0", len(items))
	}
}

func TestHTTPClient_FetchItems_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchItems(context.Background(), Filters{})
	if !errors.Is(err, model.ErrUpstream) {
		t.Errorf("error = %v, want wrapped %v", err, model.ErrUpstream)
	}
}

func TestHTTPClient_FetchItems_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchItems(context.Background(), Filters{})
	if !errors.Is(err, model.ErrUpstream) {
		t.Errorf("error = %v, want wrapped %v", err, model.ErrUpstream)
	}
}

func TestHTTPClient_FetchItems_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		RatePerSec: 1000,
		RateBurst:  1000,
	}, nil)

	_, err := client.FetchItems(context.Background(), Filters{})
	if !errors.Is(err, model.ErrUpstream) {
		t.Errorf("timeout should surface as %v, got %v", model.ErrUpstream, err)
	}
}

func TestHTTPClient_FetchItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "p1" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"id": "p1", "market_name": "AK-47 | Redline", "avg_price": 24.5}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	item, err := client.FetchItem(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "p1" || item.PriceAvg != 24.5 {
		t.Errorf("item = %+v", item)
	}
}

func TestHTTPClient_FetchItem_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchItem(context.Background(), "vanished")
	if !errors.Is(err, model.ErrProductNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrProductNotFound)
	}
}

func TestHTTPClient_FetchItem_IgnoresMismatchedResults(t *testing.T) {
	// Some APIs treat the id parameter as a fuzzy match; only an exact id
	// hit counts.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "p1-stattrak", "market_name": "StatTrak AK", "avg_price": 99}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchItem(context.Background(), "p1")
	if !errors.Is(err, model.ErrProductNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrProductNotFound)
	}
}
