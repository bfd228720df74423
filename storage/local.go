package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects under Root/<bucket>/<path>; the HTTP server
// exposes Root at /uploads.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", root, err)
	}
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	if _, err := cleanObjectPath(bucket); err != nil {
		return err
	}

	dst := filepath.Join(s.Root, bucket, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func (s *LocalStore) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", s.BaseURL, bucket, strings.TrimPrefix(objectPath, "/"))
}
