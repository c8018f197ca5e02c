package ebaymedia

import (
	"context"
	"io"
)

// MediaStore defines the interface for media storage backends
type MediaStore interface {
	// Upload writes the image bytes under the given name
	Upload(ctx context.Context, name string, reader io.Reader) error

	// Download returns a reader over the stored image bytes
	Download(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns every file in the media directory. It returns
	// ErrDirectoryMissing when the directory does not exist.
	List(ctx context.Context) ([]MediaFile, error)

	// Meta retrieves metadata for a stored image
	Meta(ctx context.Context, name string) (*MediaFile, error)

	// Delete removes an image
	Delete(ctx context.Context, name string) error

	// RepairPermissions walks the store and resets directories to 0755
	// and files to 0644. Backends without filesystem modes return an
	// empty report.
	RepairPermissions(ctx context.Context) (*RepairReport, error)
}

// EventSink defines the interface for media event handling. Sink
// failures never fail the operation that fired them.
type EventSink interface {
	// ImageUploaded is fired after an image lands in the store
	ImageUploaded(ctx context.Context, file *MediaFile) error

	// ImageDeleted is fired after an image is removed
	ImageDeleted(ctx context.Context, name string) error

	// PermissionsRepaired is fired after a repair pass completes
	PermissionsRepaired(ctx context.Context, report *RepairReport) error
}
