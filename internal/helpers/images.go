package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadImages pushes local files to Cloudinary under the given folder and
// returns the assigned secure URLs in upload order.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, filePaths []string, folder string) ([]string, error) {
	var urls []string
	for _, filePath := range filePaths {
		if strings.TrimSpace(filePath) == "" {
			continue
		}
		uploadResult, err := cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"eventsapp"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %s: %v", filePath, err)
		}
		urls = append(urls, uploadResult.SecureURL)
	}
	return urls, nil
}

// DeleteImage destroys one asset addressed by its filename within a folder.
func DeleteImage(ctx context.Context, cld *cloudinary.Cloudinary, folder, filename string) error {
	publicID := folder + "/" + strings.TrimSuffix(filename, pathExt(filename))
	_, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %v", filename, err)
	}
	return nil
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
