package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"stackvault/internal/entity"
	"stackvault/pkg/logger"

	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type MediaUseCase interface {
	UploadImage(ctx context.Context, upload ImageUpload) (string, error)
}

type mediaUseCase struct {
	storage ImageStorage
	logger  *logger.Logger
}

func NewMediaUseCase(storage ImageStorage, logger *logger.Logger) MediaUseCase {
	return &mediaUseCase{storage: storage, logger: logger}
}

func (uc *mediaUseCase) UploadImage(ctx context.Context, upload ImageUpload) (string, error) {
	if uc.storage == nil {
		return "", entity.NewError(entity.ErrServiceUnavailable, "Image storage unavailable")
	}
	if upload.Body == nil || upload.Size == 0 {
		return "", entity.Validation("Image file is required")
	}
	if upload.Size > MaxImageSize {
		return "", entity.Validation("Image must be 5MB or smaller")
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if contentType == "" {
		contentType = "image/jpeg"
	}
	defaultExt, ok := allowedImageTypes[contentType]
	if !ok {
		return "", entity.Validation("Unsupported image type")
	}

	key := fmt.Sprintf("products/%s%s", uuid.New().String(), imageExtension(upload.Filename, defaultExt))
	url, err := uc.storage.UploadFile(ctx, key, upload.Body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload image %s: %v", key, err)
		return "", err
	}
	return url, nil
}

func imageExtension(filename, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fallback
	}
	return ext
}
