package model

import "errors"

const (
	MaxImageSizeBytes = 5 * 1024 * 1024
	ImageMaxDimension = 1200
	ImageFolder       = "images"
	ImageExt          = ".jpg"
	ImageCacheControl = "public, max-age=31536000"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// IsAllowedImageType reports if the provided content type is supported.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrMediaNotFound    = errors.New("media object not found")
	ErrNotMediaOwner    = errors.New("not the owner of this media object")
)

// UploadResult is the uploaded object's public URL plus its bucket key,
// which callers keep for a later delete.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
