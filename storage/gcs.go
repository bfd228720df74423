package storage

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore maps each logical bucket to "<prefix><bucket>" in Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
	prefix string
}

// NewGCSStore uses the credentials file when given, otherwise application default credentials.
func NewGCSStore(ctx context.Context, bucketPrefix, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{client: client, prefix: bucketPrefix}, nil
}

func (s *GCSStore) bucketName(bucket string) string {
	return s.prefix + bucket
}

func (s *GCSStore) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	obj := s.client.Bucket(s.bucketName(bucket)).Object(cleaned)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=3600"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write GCS object %s: %w", cleaned, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", cleaned, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName(bucket), objectPath)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
