package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"skineedipping/internal/model"
)

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Add inserts a bookmark row. ON CONFLICT DO NOTHING makes concurrent
// toggles for the same (user, product) pair converge: the loser of the
// race sees zero rows affected and treats the bookmark as already added.
func (r *bookmarkRepository) Add(ctx context.Context, userID int64, productID string) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to create bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Remove deletes a bookmark row, reporting whether one existed.
func (r *bookmarkRepository) Remove(ctx context.Context, userID int64, productID string) (bool, error) {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND product_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID int64, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND product_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark existence: %w", err)
	}
	return exists, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	query := `
		SELECT id, user_id, product_id, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var bookmarks []model.Bookmark
	err := r.db.SelectContext(ctx, &bookmarks, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (r *bookmarkRepository) ListProductIDsByUser(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT product_id FROM bookmarks WHERE user_id = $1`

	var productIDs []string
	err := r.db.SelectContext(ctx, &productIDs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked product ids: %w", err)
	}

	return productIDs, nil
}

// CheckBookmarks checks which products the user has bookmarked in a
// single query, avoiding a point lookup per catalog item.
func (r *bookmarkRepository) CheckBookmarks(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error) {
	if len(productIDs) == 0 {
		return make(map[string]bool), nil
	}

	query := `SELECT product_id FROM bookmarks WHERE user_id = $1 AND product_id = ANY($2)`
	var bookmarked []string
	err := r.db.SelectContext(ctx, &bookmarked, query, userID, pq.Array(productIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check bookmarks: %w", err)
	}

	result := make(map[string]bool)
	for _, id := range productIDs {
		result[id] = false
	}
	for _, id := range bookmarked {
		result[id] = true
	}

	return result, nil
}
