package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gigmarket/internal/storage"
	gigmarket_errors "gigmarket/pkg/errors"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type PresignInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

type PresignResult struct {
	UploadURL string            `json:"upload_url"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	FileURL   string            `json:"file_url"`
}

// UploadService hands out presigned URLs for gig image uploads. Objects
// are keyed under the uploading seller so keys never collide.
type UploadService struct {
	store *storage.Client
}

func NewUploadService(store *storage.Client) *UploadService {
	return &UploadService{store: store}
}

func (s *UploadService) PresignGigImage(ctx context.Context, sellerID uuid.UUID, in PresignInput) (PresignResult, error) {
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return PresignResult{}, fmt.Errorf("%w: unsupported content type %q", gigmarket_errors.ErrInvalidInput, in.ContentType)
	}
	if in.SizeBytes <= 0 || in.SizeBytes > maxUploadBytes {
		return PresignResult{}, fmt.Errorf("%w: size must be between 1 and %d bytes", gigmarket_errors.ErrInvalidInput, maxUploadBytes)
	}
	if got := strings.ToLower(path.Ext(in.Filename)); got != "" && got != ext && !(got == ".jpeg" && ext == ".jpg") {
		return PresignResult{}, fmt.Errorf("%w: filename extension does not match content type", gigmarket_errors.ErrInvalidInput)
	}

	key := fmt.Sprintf("gigs/%s/%s%s", sellerID, uuid.New(), ext)
	uploadURL, headers, err := s.store.PresignPut(ctx, key, contentType, in.SizeBytes)
	if err != nil {
		return PresignResult{}, fmt.Errorf("presign upload: %w", err)
	}

	return PresignResult{
		UploadURL: uploadURL,
		Headers:   headers,
		Key:       key,
		FileURL:   s.store.FileURL(key),
	}, nil
}
