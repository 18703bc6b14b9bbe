package infrastructures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ObjectStorage accepts raw bytes plus metadata and returns the stored
// path. The application only records the returned path; serving files back
// is the storage backend's concern.
type ObjectStorage interface {
	Put(ctx context.Context, objectName string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, storagePath string) error
}

// NewObjectStorage picks the backend from config: GCS in deployed
// environments, local disk for development.
func NewObjectStorage() ObjectStorage {
	if Config != nil && Config.STORAGE_BACKEND == "gcs" {
		store, err := NewGCSObjectStorage(context.Background(), Config.GCS_BUCKET)
		if err != nil {
			logrus.Fatalf("failed to initialize gcs storage: %v", err)
		}
		return store
	}
	dir := "./uploads"
	if Config != nil && Config.STORAGE_LOCAL_DIR != "" {
		dir = Config.STORAGE_LOCAL_DIR
	}
	return NewLocalObjectStorage(dir)
}

// LocalObjectStorage writes objects under a base directory. Development
// backend only.
type LocalObjectStorage struct {
	baseDir string
}

func NewLocalObjectStorage(baseDir string) *LocalObjectStorage {
	return &LocalObjectStorage{baseDir: baseDir}
}

func (s *LocalObjectStorage) Put(ctx context.Context, objectName string, contentType string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *LocalObjectStorage) Delete(ctx context.Context, storagePath string) error {
	if !strings.HasPrefix(filepath.Clean(storagePath), filepath.Clean(s.baseDir)) {
		return fmt.Errorf("storage path %q is outside the upload directory", storagePath)
	}
	return os.Remove(storagePath)
}

// GCSObjectStorage stores objects in a Google Cloud Storage bucket.
type GCSObjectStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSObjectStorage(ctx context.Context, bucket string) (*GCSObjectStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required")
	}

	// Prefer ADC; explicit JSON credentials only for local runs.
	var client *storage.Client
	var err error
	if credJSON := strings.TrimSpace(os.Getenv("GCS_CREDENTIALS_JSON")); credJSON != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, err
	}

	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		return nil, fmt.Errorf("gcs bucket %q not found or not accessible: %w", bucket, err)
	}

	return &GCSObjectStorage{client: client, bucket: bucket}, nil
}

func (s *GCSObjectStorage) Put(ctx context.Context, objectName string, contentType string, data []byte) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *GCSObjectStorage) Delete(ctx context.Context, storagePath string) error {
	objectName := strings.TrimPrefix(storagePath, fmt.Sprintf("gs://%s/", s.bucket))
	return s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
}
