package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skineedipping/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID retrieves a user's profile extras.
// A user without a profile row gets a zero-value profile, not an error.
func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.UserProfile, error) {
	query := `
		SELECT user_id, description, profile_pic_url, profile_pic_key, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var p model.UserProfile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &model.UserProfile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// UpsertDescription writes the description column only. The picture
// columns are untouched so a concurrent picture upload is never clobbered.
func (r *profileRepository) UpsertDescription(ctx context.Context, userID int64, description string) error {
	query := `
		INSERT INTO user_profiles (user_id, description, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET description = EXCLUDED.description, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, description)
	if err != nil {
		return fmt.Errorf("failed to upsert description: %w", err)
	}
	return nil
}

// UpsertPicture writes the picture columns only; see UpsertDescription.
func (r *profileRepository) UpsertPicture(ctx context.Context, userID int64, picURL, picKey string) error {
	query := `
		INSERT INTO user_profiles (user_id, profile_pic_url, profile_pic_key, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET profile_pic_url = EXCLUDED.profile_pic_url,
		    profile_pic_key = EXCLUDED.profile_pic_key,
		    updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, picURL, picKey)
	if err != nil {
		return fmt.Errorf("failed to upsert picture: %w", err)
	}
	return nil
}
