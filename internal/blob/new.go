package blob

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
)

type implStore struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

// New creates a new Store instance backed by an S3-compatible endpoint and
// ensures the configured bucket exists.
func New(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.Info(ctx, "Created storage bucket: %s", cfg.Bucket)
	}

	return &implStore{client: client, bucket: cfg.Bucket, logger: log}, nil
}
