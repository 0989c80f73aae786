package services

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/mishgunpstlt/EventsApp/internal/helpers"
)

// ImageStore abstracts the asset backend so the moderation and event
// services can be exercised without a live Cloudinary account.
type ImageStore interface {
	Upload(ctx context.Context, folder string, filePaths []string) ([]string, error)
	Delete(ctx context.Context, folder, filename string) error
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

func (s *CloudinaryStore) Upload(ctx context.Context, folder string, filePaths []string) ([]string, error) {
	return helpers.UploadImages(ctx, s.cld, filePaths, folder)
}

func (s *CloudinaryStore) Delete(ctx context.Context, folder, filename string) error {
	return helpers.DeleteImage(ctx, s.cld, folder, filename)
}
