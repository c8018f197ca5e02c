package memory

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path/filepath"
	"sync"
	"time"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// Backend is an in-memory implementation of the ebaymedia.MediaStore
// interface, used in tests and as a scratch backend.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
	missing bool
}

type object struct {
	data    []byte
	modTime time.Time
}

// New creates a new in-memory media store
func New() *Backend {
	return &Backend{objects: make(map[string]object)}
}

// SetMissing makes List behave as if the media directory were gone.
// Test hook for the degraded gallery path.
func (b *Backend) SetMissing(missing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missing = missing
}

// Upload stores the bytes under the given name
func (b *Backend) Upload(ctx context.Context, name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &ebaymedia.StoreError{Backend: "memory", Name: name, Op: "upload", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = object{data: data, modTime: time.Now().UTC()}
	return nil
}

// Download returns a reader over the stored bytes
func (b *Backend) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[name]
	if !exists {
		return nil, &ebaymedia.StoreError{Backend: "memory", Name: name, Op: "download", Err: ebaymedia.ErrImageNotFound}
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// List returns every stored file
func (b *Backend) List(ctx context.Context) ([]ebaymedia.MediaFile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.missing {
		return nil, ebaymedia.ErrDirectoryMissing
	}

	files := make([]ebaymedia.MediaFile, 0, len(b.objects))
	for name, obj := range b.objects {
		files = append(files, ebaymedia.MediaFile{
			Name:      name,
			Size:      int64(len(obj.data)),
			Mode:      ebaymedia.FileMode,
			UpdatedAt: obj.modTime,
		})
	}
	return files, nil
}

// Meta retrieves metadata for a stored file
func (b *Backend) Meta(ctx context.Context, name string) (*ebaymedia.MediaFile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[name]
	if !exists {
		return nil, &ebaymedia.StoreError{Backend: "memory", Name: name, Op: "meta", Err: ebaymedia.ErrImageNotFound}
	}

	return &ebaymedia.MediaFile{
		Name:        name,
		Size:        int64(len(obj.data)),
		Mode:        ebaymedia.FileMode,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		UpdatedAt:   obj.modTime,
	}, nil
}

// Delete removes a stored file
func (b *Backend) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[name]; !exists {
		return &ebaymedia.StoreError{Backend: "memory", Name: name, Op: "delete", Err: ebaymedia.ErrImageNotFound}
	}

	delete(b.objects, name)
	return nil
}

// RepairPermissions is a no-op for the in-memory store
func (b *Backend) RepairPermissions(ctx context.Context) (*ebaymedia.RepairReport, error) {
	now := time.Now().UTC()
	return &ebaymedia.RepairReport{StartedAt: now, FinishedAt: now}, nil
}
