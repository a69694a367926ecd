// SPDX-License-Identifier: MIT

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// s3Store keeps artifacts in an S3-compatible bucket via the MinIO client.
// References are object keys.
type s3Store struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// S3Options holds connection parameters for the S3 backend.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewS3 connects to an S3-compatible endpoint and ensures the bucket exists.
func NewS3(ctx context.Context, opts S3Options, logger zerolog.Logger) (Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("s3 bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("s3 bucket create: %w", err)
		}
	}

	logger.Info().
		Str("endpoint", opts.Endpoint).
		Str("bucket", opts.Bucket).
		Msg("connected to S3 artifact store")

	return &s3Store{client: client, bucket: opts.Bucket, logger: logger}, nil
}

func (s *s3Store) Save(ctx context.Context, relPath string, r io.Reader) (string, int64, error) {
	key := strings.TrimPrefix(relPath, "/")
	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("artifact write %s: %w", key, err)
	}
	s.logger.Debug().
		Str("path", key).
		Int64("size", info.Size).
		Msg("artifact stored")
	return key, info.Size, nil
}

func (s *s3Store) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	size, err := s.Size(ctx, ref)
	if err != nil {
		return nil, 0, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	return obj, size, nil
}

func (s *s3Store) Size(ctx context.Context, ref string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return info.Size, nil
}

func (s *s3Store) Remove(ctx context.Context, ref string) error {
	err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil
		}
		return err
	}
	return nil
}
