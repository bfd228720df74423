package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"story-cms/helper"
	"story-cms/models"

	"github.com/gin-gonic/gin"
)

// readImage loads an optional multipart image. It returns nil when the field
// is absent and a validation error when the file is larger than allowed.
func readImage(c *gin.Context, field string) (*models.UploadedImage, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewValidationError(fmt.Sprintf("Invalid %s upload", field))
	}
	if fh.Size > helper.MaxImageSize {
		return nil, models.NewValidationError(helper.ErrImageTooLarge.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return nil, models.NewInternalError("Failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, helper.MaxImageSize+1))
	if err != nil {
		return nil, models.NewInternalError("Failed to read upload", err)
	}

	return &models.UploadedImage{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
