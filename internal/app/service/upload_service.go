package service

import (
	"context"
	"path"
	"strings"
	"vibebench/internal/common"

	"github.com/google/uuid"
)

// Presigner matches blob.PresignPut; injected so tests can fake it.
type Presigner func(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error)

type UploadService struct {
	presign Presigner
}

func NewUploadService(presign Presigner) *UploadService {
	return &UploadService{presign: presign}
}

// Content types accepted for chat-log evidence files.
var allowedContentTypes = map[string]bool{
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"text/plain":       true,
	"text/markdown":    true,
	"application/json": true,
	"application/pdf":  true,
}

func AllowedContentType(contentType string) bool {
	return allowedContentTypes[contentType]
}

type PresignResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// PresignUpload authorizes one direct-to-storage upload. The object key
// gets a random suffix so clients cannot overwrite each other's files.
func (s *UploadService) PresignUpload(ctx context.Context, filename, contentType string) (*PresignResponse, error) {
	if !AllowedContentType(contentType) {
		return nil, common.Errorf("content type %q is not allowed: %w", contentType, common.ErrBadRequest)
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "upload"
	}
	key := "chatlogs/" + base + "-" + uuid.NewString() + path.Ext(filename)

	uploadURL, publicURL, err := s.presign(ctx, key, contentType)
	if err != nil {
		return nil, common.Errorf("failed to presign upload: %w", err)
	}
	return &PresignResponse{UploadURL: uploadURL, PublicURL: publicURL}, nil
}
