package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreUpload(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "http://localhost:8080/")
	require.NoError(t, err)

	err = s.Upload(context.Background(), StoryImagesBucket, "story-images/abc.png", []byte("img"), "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "story-images", "story-images", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	assert.Equal(t, "http://localhost:8080/uploads/story-images/story-images/abc.png",
		s.PublicURL(StoryImagesBucket, "story-images/abc.png"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, p := range []string{"../escape.png", "/abs.png", "", "a/../../b.png"} {
		err := s.Upload(context.Background(), PostImagesBucket, p, []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Upload(ctx, PostImagesBucket, "a.png", []byte("x"), "image/png"), context.Canceled)
}
