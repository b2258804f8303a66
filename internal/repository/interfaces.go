package repository

import (
	"context"

	"skineedipping/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type BookmarkRepository interface {
	// Add inserts a bookmark. Returns false when the row already existed
	// (concurrent toggle); duplicate inserts are not an error.
	Add(ctx context.Context, userID int64, productID string) (bool, error)
	// Remove deletes a bookmark. Returns false when no row existed.
	Remove(ctx context.Context, userID int64, productID string) (bool, error)
	Exists(ctx context.Context, userID int64, productID string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error)
	ListProductIDsByUser(ctx context.Context, userID int64) ([]string, error)
	// CheckBookmarks checks which of the given products the user has
	// bookmarked, in a single query.
	CheckBookmarks(ctx context.Context, userID int64, productIDs []string) (map[string]bool, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserProfile, error)
	// UpsertDescription writes only the description column.
	UpsertDescription(ctx context.Context, userID int64, description string) error
	// UpsertPicture writes only the picture columns.
	UpsertPicture(ctx context.Context, userID int64, picURL, picKey string) error
}
