package model

import (
	"errors"
	"time"
)

// Bookmark links a user to a catalog product by its external id.
// The (user_id, product_id) pair is unique at the storage layer.
type Bookmark struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Toggle outcomes.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ToggleResult reports which way a bookmark toggle went.
type ToggleResult struct {
	Action  string `json:"action"` // ToggleAdded or ToggleRemoved
	Message string `json:"message"`
}

// BookmarkedItem is a stored bookmark enriched with live catalog data.
// Item is nil when the product no longer appears in the live catalog.
type BookmarkedItem struct {
	Bookmark Bookmark     `json:"bookmark"`
	Item     *CatalogItem `json:"item,omitempty"`
}

var (
	// ErrProductNotFound is returned when a product id is not in the live catalog
	ErrProductNotFound = errors.New("product not found")
)
