// Package storage guarda fotos de perfil e imagens de posts no MinIO.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/config"
)

// MinioStorage implementa ports.ObjectStorage
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  ports.Logger
}

// NewMinioStorage conecta no MinIO e garante que o bucket existe
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, logger ports.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}

	logger.Info("Object storage ready", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload grava o arquivo em folder/<uuid><ext> e devolve a URL pública
func (s *MinioStorage) Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	s.logger.Debug("Object uploaded", "bucket", s.bucket, "key", key, "size", size)
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

func (s *MinioStorage) Delete(ctx context.Context, url string) error {
	prefix := s.baseURL + "/" + s.bucket + "/"
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}

	s.logger.Debug("Object removed", "bucket", s.bucket, "key", key)
	return nil
}

// ObjectKey gera uma chave única preservando a extensão original
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}
