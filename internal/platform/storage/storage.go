// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the object-storage client used for post media.

It talks to any S3-compatible service (AWS S3, MinIO, R2) through minio-go and
exposes only what the application needs: upload an object, compute its
public URL and remove an object that was never referenced.

Usage:

	bucket, err := storage.NewBucket(ctx, storage.Options{...}, logger)
	url, err := bucket.Upload(ctx, storage.ObjectKey("posts", header.Filename), file, header.Size, contentType)

When no bucket is configured, [Disabled] is wired instead and every upload
fails with a 503 SERVICE_UNAVAILABLE.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/pkg/slug"
	"github.com/taibuivan/campusconnect/pkg/uuid"
)

// # Contracts

// Uploader stores an object and returns its public URL.
//
// Remove deletes an object by key; removing a missing key is not an error.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// # Configuration

// Options configures a [Bucket].
type Options struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// PublicURL is the base URL objects are served from. When empty the
	// endpoint's path-style URL is used.
	PublicURL string
}

// # S3 Bucket

// Bucket is an [Uploader] backed by an S3-compatible bucket.
type Bucket struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewBucket creates a client and verifies that the bucket exists.
func NewBucket(ctx context.Context, options Options, logger *slog.Logger) (*Bucket, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: invalid endpoint: %w", err)
	}

	exists, err := client.BucketExists(ctx, options.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket check failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("storage: bucket %q does not exist", options.Bucket)
	}

	logger.Info("object storage connected",
		slog.String("endpoint", options.Endpoint),
		slog.String("bucket", options.Bucket),
	)

	return &Bucket{
		client:  client,
		bucket:  options.Bucket,
		baseURL: baseURL(options),
	}, nil
}

// Upload stores body under key and returns the object's public URL.
func (bucket *Bucket) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := bucket.client.PutObject(ctx, bucket.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage_upload_failed: %w", err)
	}

	return bucket.PublicURL(key), nil
}

// Remove deletes the object stored under key.
func (bucket *Bucket) Remove(ctx context.Context, key string) error {
	if err := bucket.client.RemoveObject(ctx, bucket.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage_remove_failed: %w", err)
	}
	return nil
}

// PublicURL returns the URL an object is served from.
func (bucket *Bucket) PublicURL(key string) string {
	return bucket.baseURL + "/" + strings.TrimLeft(key, "/")
}

func baseURL(options Options) string {
	if options.PublicURL != "" {
		return strings.TrimRight(options.PublicURL, "/")
	}

	scheme := "http"
	if options.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(options.Endpoint, "/"), options.Bucket)
}

// # Disabled Storage

// Disabled is the [Uploader] used when no bucket is configured.
type Disabled struct{}

// Upload always fails with SERVICE_UNAVAILABLE.
func (Disabled) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", apperr.ServiceUnavailable("Media uploads are not configured")
}

// Remove is a no-op; nothing is ever stored.
func (Disabled) Remove(context.Context, string) error {
	return nil
}

// # Object Keys

// ObjectKey builds a collision-free key: <prefix>/<uuidv7>-<slug(name)>.<ext>.
func ObjectKey(prefix, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.From(strings.TrimSuffix(base, path.Ext(base)))

	if name == "" {
		name = "file"
	}

	return fmt.Sprintf("%s/%s-%s%s", prefix, uuid.New(), name, ext)
}
