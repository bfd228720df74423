// Package storage holds the object store used for story and cover images.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

const (
	StoryImagesBucket = "story-images"
	PostImagesBucket  = "post-images"
)

var ErrInvalidPath = errors.New("invalid object path")

// ObjectStore uploads blobs and resolves their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error
	PublicURL(bucket, objectPath string) string
}

// cleanObjectPath rejects absolute paths and parent traversal.
func cleanObjectPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
