// Package media stores product images in MinIO or any S3-compatible bucket.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	applog "toolstore/internal/log"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL prefixes object URLs handed to clients, e.g. a CDN origin.
	PublicURL string
}

type Store struct {
	mc        *minio.Client
	bucket    string
	publicURL string
}

func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "toolstore"
	}
	return &Store{mc: mc, bucket: bucket, publicURL: baseURL(cfg, bucket)}, nil
}

func baseURL(cfg Config, bucket string) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/") + "/" + bucket
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint + "/" + bucket
}

func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		applog.Info(nil, "media.bucket.create", map[string]any{"bucket": s.bucket})
	}
	return nil
}

// ObjectKey names an upload under the product's prefix, keeping the file extension.
func ObjectKey(productID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "products/" + productID + "/" + uuid.NewString() + ext
}

// PutImage uploads r and returns the public URL of the stored object.
func (s *Store) PutImage(ctx context.Context, productID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := ObjectKey(productID, filename)
	_, err := s.mc.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}
