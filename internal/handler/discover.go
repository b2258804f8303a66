package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skineedipping/internal/catalog"
	"skineedipping/internal/httputil"
	"skineedipping/internal/model"
	"skineedipping/internal/service"
	"skineedipping/internal/transport/http/middleware"
)

// DiscoverHandler serves the catalog browsing endpoints.
type DiscoverHandler struct {
	discoverService *service.DiscoverService
	fetcher         catalog.Fetcher
}

func NewDiscoverHandler(discoverService *service.DiscoverService, fetcher catalog.Fetcher) *DiscoverHandler {
	return &DiscoverHandler{
		discoverService: discoverService,
		fetcher:         fetcher,
	}
}

// Discover returns one page of live listings, filtered and annotated with
// the viewer's bookmarks. Anonymous viewers get the same page with every
// item unmarked. An upstream failure still answers 200 with an empty list
// and an error message in the body.
// GET /discover?wear=&item_group=&search=&sort=
func (h *DiscoverHandler) Discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := model.CatalogFilters{
		Wear:      q.Get("wear"),
		ItemGroup: q.Get("item_group"),
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
	}

	var viewerID *int64
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &userID
	}

	view, err := h.discoverService.BuildView(r.Context(), viewerID, filters)
	if err != nil {
		log.Printf("[ERROR] Discover handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to build discover view")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// Product returns a single live catalog item.
// GET /products/{productID}
func (h *DiscoverHandler) Product(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteBadRequest(w, "Product ID is required")
		return
	}

	item, err := h.fetcher.FetchItem(r.Context(), productID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not Found")
			return
		}
		log.Printf("[ERROR] Product handler: product=%s err=%v", productID, err)
		httputil.WriteError(w, http.StatusBadGateway, httputil.ErrCodeUpstream, "The catalog is temporarily unavailable")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}
