package ebaymedia

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/nfnt/resize"
)

// JPEG qualities for re-encoded originals and derived thumbnails.
const (
	reencodeQuality  = 90
	thumbnailQuality = 85
)

// StripMetadata decodes the image and re-encodes it from the pixel
// data alone, which drops EXIF blocks and other ancillary chunks.
// PNG input stays PNG; everything else comes back as JPEG. The second
// return value is the content type of the encoded bytes.
func StripMetadata(reader io.Reader, name string) ([]byte, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	buf := new(bytes.Buffer)
	if format == "png" || strings.EqualFold(path.Ext(name), ".png") {
		if err := png.Encode(buf, img); err != nil {
			return nil, "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: reencodeQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// MakeThumbnail decodes the image and scales it to fit within
// maxDim x maxDim, preserving aspect ratio. Thumbnails are always
// JPEG.
func MakeThumbnail(reader io.Reader, maxDim uint) ([]byte, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	thumb := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
