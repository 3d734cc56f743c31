// Package media stores event images on an object store and hands back
// public URLs for them.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"devevent/internal/domain"
)

// Provider names accepted by NewUploader.
const (
	ProviderS3   = "s3"
	ProviderNoop = "noop"
)

// DefaultFolder is the object prefix used when an upload names none.
const DefaultFolder = "DevEvent"

// DefaultMaxBytes caps an upload when Config.MaxBytes is unset.
const DefaultMaxBytes = 10 << 20

// Config holds configuration for creating an uploader.
type Config struct {
	Provider string
	MaxBytes int64
	S3       S3Config
}

// NewUploader creates an uploader from config. Provider "s3" stores objects
// in a bucket; "noop" or unknown only validates and returns a URL.
func NewUploader(config Config, logger *slog.Logger) (domain.MediaUploader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "media")
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultMaxBytes
	}

	switch config.Provider {
	case ProviderS3:
		return newS3Uploader(config.S3, config.MaxBytes, logger)
	case ProviderNoop, "":
		return &noopUploader{maxBytes: config.MaxBytes, logger: logger}, nil
	default:
		logger.Warn("unknown media provider, using noop", "provider", config.Provider)
		return &noopUploader{maxBytes: config.MaxBytes, logger: logger}, nil
	}
}

// object is an upload that passed validation and is ready to be stored.
type object struct {
	key         string
	contentType string
	data        []byte
}

// prepare reads the payload, checks that it is an image within maxBytes and
// picks a fresh key under the folder.
func prepare(upload *domain.MediaUpload, maxBytes int64) (*object, error) {
	if upload == nil || upload.Content == nil {
		return nil, domain.NewValidationError("image", "Image file is required")
	}
	data, err := io.ReadAll(io.LimitReader(upload.Content, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", domain.ErrUpload, err)
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("image", "Image file is required")
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("Image must be at most %d bytes", maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, domain.NewValidationError("image", "Image must be an image file")
	}

	folder := strings.Trim(upload.Folder, "/")
	if folder == "" {
		folder = DefaultFolder
	}
	return &object{
		key:         path.Join(folder, uuid.NewString()+mtype.Extension()),
		contentType: mtype.String(),
		data:        data,
	}, nil
}

type noopUploader struct {
	maxBytes int64
	logger   *slog.Logger
}

func (n *noopUploader) Upload(ctx context.Context, upload *domain.MediaUpload) (string, error) {
	obj, err := prepare(upload, n.maxBytes)
	if err != nil {
		return "", err
	}
	url := "noop://" + obj.key
	n.logger.InfoContext(ctx, "image would be uploaded", "provider", ProviderNoop, "url", url, "bytes", len(obj.data))
	return url, nil
}

func (n *noopUploader) Delete(ctx context.Context, url string) error {
	n.logger.InfoContext(ctx, "image would be deleted", "provider", ProviderNoop, "url", url)
	return nil
}
