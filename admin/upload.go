package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/rpupo63/virtuality-fashion-backend/storage"
)

// Uploader is the upload gateway as seen from the admin pages.
type Uploader interface {
	Upload(ctx context.Context, folder storage.Folder, filename, contentType string, body io.Reader, size int64) (string, error)
}

// UploadImage validates a posted file and, only if it passes, sends it to the
// gateway. Errors are safe to show as is.
func UploadImage(ctx context.Context, up Uploader, folder storage.Folder, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, fh.Size); err != nil {
		return "", err
	}
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrUploadFailed, err)
	}
	defer file.Close()

	return up.Upload(ctx, folder, fh.Filename, contentType, file, fh.Size)
}

// UploadMessage is the text shown next to the image field for err.
func UploadMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, storage.ErrNotImage):
		return storage.ErrNotImage.Error()
	case errors.Is(err, storage.ErrTooLarge):
		return storage.ErrTooLarge.Error()
	default:
		return storage.ErrUploadFailed.Error()
	}
}
