package services

import (
	"context"
	"fmt"
	"path"

	"story-cms/helper"
	"story-cms/models"
	"story-cms/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ImageService interface {
	// Upload stores img under dir in bucket and returns its public URL.
	Upload(ctx context.Context, bucket, dir string, img models.UploadedImage) (string, error)
	// UploadCover stores a post cover image for the calling author.
	UploadCover(ctx context.Context, img models.UploadedImage) (string, error)
}

type imageService struct {
	store storage.ObjectStore
	log   *zap.Logger
}

func NewImageService(store storage.ObjectStore, log *zap.Logger) ImageService {
	return &imageService{store: store, log: log}
}

// ValidateImage checks that img holds a supported image and returns its
// extension and sniffed content type.
func ValidateImage(img *models.UploadedImage) (string, string, error) {
	if img == nil {
		return "", "", models.NewValidationError("Image is required")
	}
	ext, contentType, err := helper.InspectImage(img.Data)
	if err != nil {
		return "", "", models.NewValidationError(err.Error())
	}
	return ext, contentType, nil
}

func (s *imageService) Upload(ctx context.Context, bucket, dir string, img models.UploadedImage) (string, error) {
	ext, contentType, err := ValidateImage(&img)
	if err != nil {
		return "", err
	}

	objectPath := path.Join(dir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	if err := s.store.Upload(ctx, bucket, objectPath, img.Data, contentType); err != nil {
		return "", models.NewInternalError("Failed to upload image", err)
	}

	url := s.store.PublicURL(bucket, objectPath)
	s.log.Info("image uploaded",
		zap.String("bucket", bucket),
		zap.String("path", objectPath),
		zap.Int("bytes", len(img.Data)))
	return url, nil
}

func (s *imageService) UploadCover(ctx context.Context, img models.UploadedImage) (string, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, storage.PostImagesBucket, session.UserID, img)
}
