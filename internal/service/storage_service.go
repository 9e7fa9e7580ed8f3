package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"fibu_trainer_backend/internal/config"
)

// StorageProvider persists raw import payloads for later auditing.
type StorageProvider interface {
	Save(ctx context.Context, objectName string, data []byte, contentType string) error
}

type LocalStorageProvider struct {
	basePath string
}

func NewLocalStorageProvider(basePath string) *LocalStorageProvider {
	return &LocalStorageProvider{basePath: basePath}
}

func (p *LocalStorageProvider) Save(_ context.Context, objectName string, data []byte, _ string) error {
	path := filepath.Join(p.basePath, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type MinioStorageProvider struct {
	client *minio.Client
	bucket string
}

func NewMinioStorageProvider(cfg config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	return &MinioStorageProvider{client: client, bucket: cfg.MinioBucket}, nil
}

func (p *MinioStorageProvider) Save(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// StorageService archives the raw bodies of bulk imports. Archiving is
// best-effort: a storage outage must never fail an import.
type StorageService struct {
	provider StorageProvider
	logger   *zap.Logger
}

func NewStorageService(cfg config.StorageConfig, logger *zap.Logger) *StorageService {
	var provider StorageProvider
	switch cfg.Type {
	case "minio":
		p, err := NewMinioStorageProvider(cfg)
		if err != nil {
			logger.Warn("minio unavailable, falling back to local storage", zap.Error(err))
			provider = NewLocalStorageProvider(cfg.LocalPath)
		} else {
			provider = p
		}
	default:
		provider = NewLocalStorageProvider(cfg.LocalPath)
	}
	return &StorageService{provider: provider, logger: logger}
}

// ArchiveImport stores the raw upload under imports/ with a unique
// object name and returns that name.
func (s *StorageService) ArchiveImport(ctx context.Context, originalName string, data []byte, contentType string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".json"
	}
	objectName := fmt.Sprintf("imports/%s-%s%s", time.Now().Format("20060102T150405"), uuid.New().String(), ext)

	if err := s.provider.Save(ctx, objectName, data, contentType); err != nil {
		s.logger.Warn("import archive failed",
			zap.String("object", objectName),
			zap.Error(err))
		return ""
	}
	return objectName
}
