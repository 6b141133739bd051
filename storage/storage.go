// Package storage is the upload gateway: it validates image uploads, names
// them and hands them to an object store that serves them publicly.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize int64 = 5 * 1024 * 1024

var (
	ErrNotImage      = errors.New("Please upload an image file")
	ErrTooLarge      = errors.New("Image size should be less than 5MB")
	ErrInvalidFolder = errors.New("folder must be portraits or portfolio")
	// ErrUploadFailed is what callers show when the store rejects an object.
	ErrUploadFailed = errors.New("Failed to upload image. Please try again.")
)

// Folder classifies an upload.
type Folder string

const (
	FolderPortraits Folder = "portraits"
	FolderPortfolio Folder = "portfolio"
)

func ParseFolder(s string) (Folder, error) {
	switch f := Folder(strings.TrimSpace(s)); f {
	case FolderPortraits, FolderPortfolio:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, s)
	}
}

// ValidateImage checks the declared content type and size of an upload.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if size > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

// ObjectStore persists objects and exposes them at a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PublicURL(key string) string
}

type Gateway struct {
	store  ObjectStore
	now    func() time.Time
	suffix func() string
	logger zerolog.Logger
}

func NewGateway(store ObjectStore) *Gateway {
	return &Gateway{
		store:  store,
		now:    time.Now,
		suffix: randomSuffix,
		logger: log.With().Str("component", "upload-gateway").Logger(),
	}
}

// Upload stores body under a fresh key and returns its public URL. Every call
// creates a new object; earlier objects are never removed.
func (g *Gateway) Upload(ctx context.Context, folder Folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := ParseFolder(string(folder)); err != nil {
		return "", err
	}
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}

	key := g.Key(folder, filename, contentType)
	if err := g.store.Put(ctx, key, contentType, body, size); err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("object store rejected upload")
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	g.logger.Info().Str("key", key).Int64("size", size).Msg("image uploaded")
	return g.store.PublicURL(key), nil
}

// Key builds `<folder>/<unix millis>-<random><.ext>`.
func (g *Gateway) Key(folder Folder, filename, contentType string) string {
	return fmt.Sprintf("%s/%d-%s%s", folder, g.now().UnixMilli(), g.suffix(), extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/")))); ext != "" && ext != "." {
		return ext
	}
	if ext, ok := commonExtensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

var commonExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
