package ebaymedia

import (
	"context"
	"io"
)

// Service defines the main interface for the ebay-media library
type Service interface {
	// Upload operations
	UploadImage(ctx context.Context, req UploadImageRequest) (*MediaFile, error)

	// Read operations
	GetImage(ctx context.Context, name string) (*MediaFile, io.ReadCloser, error)
	ListImages(ctx context.Context) ([]MediaFile, error)
	ListGallery(ctx context.Context) (*GalleryResponse, error)
	Thumbnail(ctx context.Context, name string, maxDim uint) ([]byte, error)

	// Mutations
	DeleteImage(ctx context.Context, name string) error
	RepairPermissions(ctx context.Context) (*RepairReport, error)
}

// UploadImageRequest carries an incoming image. The file name decides
// the output format: .png stays PNG, everything else re-encodes to
// JPEG.
type UploadImageRequest struct {
	FileName string
	Data     io.Reader
}
