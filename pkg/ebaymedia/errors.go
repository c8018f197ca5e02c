package ebaymedia

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrDirectoryMissing indicates the media directory does not exist
	ErrDirectoryMissing = errors.New("media directory missing")

	// ErrImageNotFound indicates an image was not found in the store
	ErrImageNotFound = errors.New("image not found")

	// ErrUnsupportedImageType indicates a file outside the jpg/jpeg/png allowlist
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrInvalidImageName indicates a name that would escape the media directory
	ErrInvalidImageName = errors.New("invalid image name")

	// ErrDecodeFailed indicates the uploaded bytes could not be decoded as an image
	ErrDecodeFailed = errors.New("image decode failed")
)

// MediaError represents an error from a media operation
type MediaError struct {
	Name string
	Op   string
	Err  error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for %q: %v", e.Op, e.Name, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// StoreError represents an error from a storage backend
type StoreError struct {
	Backend string
	Name    string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed for %q on backend %s: %v", e.Op, e.Name, e.Backend, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
