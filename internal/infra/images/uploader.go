// Package images stores meal photos in S3-compatible object storage
// (Cloudflare R2 in production). The client sends photos as base64 data
// URLs; the uploader decodes them, writes the object, and returns a public
// URL for the analyzer and the UI.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/nutribot-app/nutribot/internal/domain"
	"github.com/nutribot-app/nutribot/internal/infra/metrics"
)

// maxUploadBytes caps a single photo after client-side compression.
const maxUploadBytes = 8 << 20

// extensions maps accepted content types to object-key extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Config holds the object storage connection settings.
type Config struct {
	Endpoint  string // e.g. "https://<account>.r2.cloudflarestorage.com"
	Region    string // "auto" for R2
	Bucket    string
	AccessKey string
	SecretKey string
	CDNBase   string // public base URL; defaults to Endpoint/Bucket
}

// Uploader writes meal photos to the bucket.
type Uploader struct {
	client  *s3.Client
	bucket  string
	cdnBase string
}

// NewUploader creates an uploader from the given config.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	cdnBase := cfg.CDNBase
	if cdnBase == "" {
		cdnBase = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &Uploader{client: client, bucket: cfg.Bucket, cdnBase: strings.TrimRight(cdnBase, "/")}, nil
}

// UploadDataURL decodes a base64 data URL ("data:image/jpeg;base64,...")
// and uploads it. Returns the object key and the public URL.
func (u *Uploader) UploadDataURL(ctx context.Context, dataURL string) (key, publicURL string, err error) {
	contentType, payload, err := splitDataURL(dataURL)
	if err != nil {
		return "", "", err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}
	return u.Upload(ctx, data, contentType)
}

// Upload writes raw image bytes. Returns the object key and public URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (key, publicURL string, err error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", "", domain.ErrImageUnsupported
	}
	if len(data) > maxUploadBytes {
		return "", "", domain.ErrImageTooLarge
	}

	key = "meals/" + uuid.New().String() + ext
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}

	metrics.ImagesUploaded.Inc()
	return key, u.cdnBase + "/" + key, nil
}

// splitDataURL separates content type and base64 payload.
func splitDataURL(dataURL string) (contentType, payload string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", fmt.Errorf("not a data URL")
	}
	meta, rest, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URL")
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	return contentType, rest, nil
}
