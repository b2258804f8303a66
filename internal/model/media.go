package model

import "errors"

// Limits and normalization targets for profile picture uploads.
const (
	MaxProfilePicSizeBytes = int64(5 * 1024 * 1024)

	ProfilePicWidth  = 256
	ProfilePicHeight = 256

	ProfilePicFolder = "profiles"
	ProfilePicExt    = ".jpg"

	ContentTypeJPEG = "image/jpeg"

	ProfilePicCacheControl = "public, max-age=31536000"
)

// allowedImageTypes are the upload content types we accept before
// normalizing to JPEG.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the content type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// UploadResult is the stored location of an uploaded object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidImageType is returned for unsupported image content types
	ErrInvalidImageType = errors.New("invalid image type")
)
