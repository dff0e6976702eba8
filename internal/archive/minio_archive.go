package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/weather-app/weather-pipeline/internal/config"
	"github.com/weather-app/weather-pipeline/internal/logger"
)

// MinioArchive keeps the raw bytes of every upload in object storage,
// keyed by payload checksum. It is a best-effort audit trail: callers must
// treat Store failures as non-fatal.
type MinioArchive struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

func NewMinioArchive(cfg config.ArchiveConfig, log logger.Logger) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	log = log.WithField("component", "upload_archive")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("Created archive bucket %s", cfg.Bucket)
	}

	log.Info("Upload archive initialized")
	return &MinioArchive{
		client: client,
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

func (a *MinioArchive) Store(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("failed to store upload %s: %w", key, err)
	}

	a.logger.Debugf("Archived upload %s (%d bytes)", key, len(payload))
	return nil
}

func (a *MinioArchive) HealthCheck(ctx context.Context) error {
	if _, err := a.client.BucketExists(ctx, a.bucket); err != nil {
		return fmt.Errorf("minio health check failed: %w", err)
	}
	return nil
}
