package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Journey":                "my-journey",
		"  Hello, World!  ":         "hello-world",
		"Go_is--fun   really":       "go-is-fun-really",
		"--Leading and trailing--":  "leading-and-trailing",
		"Numbers 123 and symbols #": "numbers-123-and-symbols",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestExcerpt(t *testing.T) {
	short := "A short story."
	assert.Equal(t, short, Excerpt(short))

	exact := strings.Repeat("a", 150)
	assert.Equal(t, exact, Excerpt(exact))

	long := strings.Repeat("b", 200)
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("b", 150)+"...", got)

	multibyte := strings.Repeat("é", 151)
	assert.Equal(t, strings.Repeat("é", 150)+"...", Excerpt(multibyte))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, ReadingTime(strings.Repeat("word ", 1000)))
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "full_name", Underscore("FullName"))
	assert.Equal(t, "email", Underscore("email"))
	assert.Equal(t, "cover_image", Underscore("cover_image"))
	assert.Equal(t, "post_id", Underscore("PostID"))
}

func TestInspectImage(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	require.NoError(t, png.Encode(&buf, img))

	ext, ct, err := InspectImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", ext)
	assert.Equal(t, "image/png", ct)

	_, _, err = InspectImage(nil)
	assert.ErrorIs(t, err, ErrImageEmpty)

	_, _, err = InspectImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrImageFormat)

	_, _, err = InspectImage(make([]byte, MaxImageSize+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
