package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"devevent/internal/domain"
)

// S3Config holds configuration for an S3 compatible bucket.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint for S3 compatible stores
	// (MinIO, R2, LocalStack). Setting it switches to path-style addressing.
	Endpoint string
	// PublicBaseURL prefixes object keys in returned URLs, e.g. a CDN origin.
	PublicBaseURL string
}

type s3Uploader struct {
	client   *s3.Client
	bucket   string
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

func newS3Uploader(config S3Config, maxBytes int64, logger *slog.Logger) (*s3Uploader, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("%w: MEDIA_BUCKET is required for the s3 provider", domain.ErrConfiguration)
	}
	if config.Region == "" {
		return nil, fmt.Errorf("%w: MEDIA_REGION is required for the s3 provider", domain.ErrConfiguration)
	}
	awsCfg := aws.Config{
		Region: config.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Uploader{
		client:   client,
		bucket:   config.Bucket,
		baseURL:  publicBaseURL(config),
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

func publicBaseURL(config S3Config) string {
	switch {
	case config.PublicBaseURL != "":
		return strings.TrimRight(config.PublicBaseURL, "/")
	case config.Endpoint != "":
		return strings.TrimRight(config.Endpoint, "/") + "/" + config.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
	}
}

func (u *s3Uploader) Upload(ctx context.Context, upload *domain.MediaUpload) (string, error) {
	obj, err := prepare(upload, u.maxBytes)
	if err != nil {
		return "", err
	}
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(obj.key),
		Body:          bytes.NewReader(obj.data),
		ContentType:   aws.String(obj.contentType),
		ContentLength: aws.Int64(int64(len(obj.data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %w", domain.ErrUpload, obj.key, err)
	}
	url := u.baseURL + "/" + obj.key
	u.logger.InfoContext(ctx, "image uploaded", "provider", ProviderS3, "key", obj.key, "bytes", len(obj.data))
	return url, nil
}

// Delete removes the object behind a URL previously returned by Upload.
func (u *s3Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%w: %q is not hosted in bucket %s", domain.ErrUpload, url, u.bucket)
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrUpload, key, err)
	}
	u.logger.InfoContext(ctx, "image deleted", "provider", ProviderS3, "key", key)
	return nil
}
