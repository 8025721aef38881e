package s3

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)
const logoPrefix = "logos/"


// Storage implements domain.Storage on a MinIO bucket.
type Storage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	logger   *logger.Logger
}

// NewStorage connects to MinIO and makes sure bucket exists.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	log = log.Named("MinIOStorage")
	log.Info("Initializing MinIO storage", zap.String("endpoint", endpoint), zap.String("bucket", bucket), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		log.Info("Bucket created", zap.String("bucket", bucket))
	}

	return &Storage{
		client:   client,
		bucket:   bucket,
		endpoint: client.EndpointURL().String(),
		logger:   log,
	}, nil
}

// ObjectKey names an upload: a fresh uuid under logos/ keeping the lower-cased extension.
func ObjectKey(fileName string) string {
	return logoPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}

// Upload stores data and returns its public URL.
func (s *Storage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	key := ObjectKey(fileName)
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": filepath.Base(fileName)},
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.logger.Info("Object uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return ObjectURL(s.endpoint, s.bucket, key), nil
}

// ObjectURL is the path-style URL of key in bucket.
func ObjectURL(endpoint, bucket, key string) string {
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + key
}
