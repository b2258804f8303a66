package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"skineedipping/internal/model"
	"skineedipping/internal/repository"
)

// Uploader abstracts the media storage used for profile pictures.
type Uploader interface {
	UploadProfilePic(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

// ProfileService handles the per-user profile page: description edits
// and picture uploads. The two writes are independent single-column
// upserts so neither can clobber the other's field.
type ProfileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	uploader    Uploader
}

func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, uploader Uploader) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

// Get returns a user together with their profile extras.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{User: user, Profile: profile}, nil
}

// UpdateDescription upserts only the description column.
func (s *ProfileService) UpdateDescription(ctx context.Context, userID int64, description string) error {
	if err := s.profileRepo.UpsertDescription(ctx, userID, description); err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	return nil
}

// UpdatePicture validates, normalizes and stores a new profile picture,
// then upserts only the picture columns. The replaced object is deleted
// best effort after the database points at the new one.
func (s *ProfileService) UpdatePicture(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	previous, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	upload, err := s.uploader.UploadProfilePic(ctx, file, header)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpsertPicture(ctx, userID, upload.URL, upload.Key); err != nil {
		// Don't leave the orphan object around.
		if delErr := s.uploader.DeleteObject(ctx, upload.Key); delErr != nil {
			log.Printf("[Profile] orphan cleanup failed: key=%s err=%v", upload.Key, delErr)
		}
		return nil, fmt.Errorf("update picture: %w", err)
	}

	if previous.ProfilePicKey != nil && *previous.ProfilePicKey != upload.Key {
		if err := s.uploader.DeleteObject(ctx, *previous.ProfilePicKey); err != nil {
			log.Printf("[Profile] old picture cleanup failed: key=%s err=%v", *previous.ProfilePicKey, err)
		}
	}

	return upload, nil
}
