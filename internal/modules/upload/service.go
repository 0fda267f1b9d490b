package upload

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const MaxFileSize = 10 * 1024 * 1024 // 10 MB

// AllowedMimeTypes are the image formats accepted for stay photos.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Service struct {
	store Store
}

// NewService returns a service; a nil store disables uploads.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Enabled() bool { return s.store != nil }

// Upload checks size and sniffed content type, then stores the image under a
// fresh public id.
func (s *Service) Upload(ctx context.Context, uploaderKey string, fh *multipart.FileHeader) (string, error) {
	if s.store == nil {
		return "", ErrDisabled
	}
	if fh.Size == 0 {
		return "", ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Sniff without consuming what the store reads.
	br := bufio.NewReaderSize(file, 512)
	head, _ := br.Peek(512)
	mimeType := strings.Split(http.DetectContentType(head), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return "", ErrInvalidMimeType
	}

	publicID := uuid.NewString()
	url, err := s.store.Put(ctx, publicID, br)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "image uploaded", "uploader", uploaderKey, "public_id", publicID, "size", fh.Size, "mime_type", mimeType)
	return url, nil
}
