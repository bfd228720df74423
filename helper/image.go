package helper

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// MaxImageSize caps uploaded images at 5 MiB.
const MaxImageSize = 5 << 20

var (
	ErrImageEmpty    = errors.New("image is required")
	ErrImageTooLarge = errors.New("image exceeds 5MB")
	ErrImageFormat   = errors.New("image must be a jpeg, png, gif or webp file")
)

var imageContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var imageExtensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// InspectImage decodes the image header and returns its file extension and
// content type. The declared content type of the upload is not trusted.
func InspectImage(data []byte) (ext string, contentType string, err error) {
	if len(data) == 0 {
		return "", "", ErrImageEmpty
	}
	if len(data) > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", "", ErrImageFormat
	}
	format = strings.ToLower(format)
	ct, ok := imageContentTypes[format]
	if !ok {
		return "", "", ErrImageFormat
	}
	return imageExtensions[format], ct, nil
}
