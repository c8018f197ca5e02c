package ebaymedia

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 7), B: 128, A: 255})
		}
	}
	return img
}

func TestStripMetadataJPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, testImage(10, 6), nil))

	data, contentType, err := StripMetadata(&src, "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}

func TestStripMetadataPNGStaysPNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, testImage(4, 4)))

	data, contentType, err := StripMetadata(&src, "graphic.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestStripMetadataJPEGWithPNGName(t *testing.T) {
	// A JPEG uploaded under a .png name keeps the name's format so the
	// stored extension stays truthful.
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, testImage(4, 4), nil))

	data, contentType, err := StripMetadata(&src, "shot.PNG")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestStripMetadataRejectsGarbage(t *testing.T) {
	_, _, err := StripMetadata(bytes.NewReader([]byte("not an image")), "x.jpg")
	assert.ErrorIs(t, err, ErrDecodeFailed)
}

func TestMakeThumbnailFitsBounds(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, testImage(100, 40), nil))

	data, err := MakeThumbnail(&src, 10)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 10)
	assert.LessOrEqual(t, cfg.Height, 10)
}

func TestMakeThumbnailRejectsGarbage(t *testing.T) {
	_, err := MakeThumbnail(bytes.NewReader([]byte("junk")), 10)
	assert.ErrorIs(t, err, ErrDecodeFailed)
}
