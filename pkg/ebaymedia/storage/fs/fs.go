package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// Backend is a local-directory implementation of the
// ebaymedia.MediaStore interface. The directory is flat: names with
// path separators are rejected.
type Backend struct {
	baseDir  string
	dirMode  iofs.FileMode
	fileMode iofs.FileMode
}

// Config options for the filesystem backend
type Config struct {
	BaseDir  string        // Media directory, created at construction if absent
	DirMode  iofs.FileMode // Directory permission target (default 0755)
	FileMode iofs.FileMode // File permission target (default 0644)
}

// New creates a new filesystem media store. The base directory is
// created if it does not exist, mirroring activation-time behavior.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.DirMode == 0 {
		config.DirMode = ebaymedia.DirMode
	}
	if config.FileMode == 0 {
		config.FileMode = ebaymedia.FileMode
	}

	if err := os.MkdirAll(config.BaseDir, config.DirMode); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &Backend{
		baseDir:  config.BaseDir,
		dirMode:  config.DirMode,
		fileMode: config.FileMode,
	}, nil
}

func (b *Backend) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ebaymedia.ErrInvalidImageName
	}
	return filepath.Join(b.baseDir, name), nil
}

// Upload writes the bytes to the media directory with the configured
// file mode.
func (b *Backend) Upload(ctx context.Context, name string, reader io.Reader) error {
	filePath, err := b.path(name)
	if err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "upload", Err: err}
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, b.fileMode)
	if err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "upload", Err: err}
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "upload", Err: err}
	}

	// O_CREATE honors umask; force the target mode on files that
	// already existed too.
	if err := os.Chmod(filePath, b.fileMode); err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "upload", Err: err}
	}

	return nil
}

// Download opens the stored file for reading
func (b *Backend) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := b.path(name)
	if err != nil {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "download", Err: err}
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "download", Err: ebaymedia.ErrImageNotFound}
	} else if err != nil {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "download", Err: err}
	}

	return file, nil
}

// List returns every regular file in the media directory. A missing
// directory is reported as ebaymedia.ErrDirectoryMissing so callers
// can degrade instead of fail.
func (b *Backend) List(ctx context.Context) ([]ebaymedia.MediaFile, error) {
	entries, err := os.ReadDir(b.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ebaymedia.ErrDirectoryMissing, b.baseDir)
		}
		return nil, fmt.Errorf("failed to read media directory: %w", err)
	}

	files := make([]ebaymedia.MediaFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ebaymedia.MediaFile{
			Name:        entry.Name(),
			Size:        info.Size(),
			Mode:        info.Mode().Perm(),
			ContentType: contentTypeFor(filepath.Join(b.baseDir, entry.Name())),
			UpdatedAt:   info.ModTime(),
		})
	}

	return files, nil
}

// Meta retrieves metadata for a stored image
func (b *Backend) Meta(ctx context.Context, name string) (*ebaymedia.MediaFile, error) {
	filePath, err := b.path(name)
	if err != nil {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "meta", Err: err}
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "meta", Err: ebaymedia.ErrImageNotFound}
	} else if err != nil {
		return nil, &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "meta", Err: err}
	}

	return &ebaymedia.MediaFile{
		Name:        name,
		Size:        info.Size(),
		Mode:        info.Mode().Perm(),
		ContentType: contentTypeFor(filePath),
		UpdatedAt:   info.ModTime(),
	}, nil
}

// Delete removes a file from the media directory
func (b *Backend) Delete(ctx context.Context, name string) error {
	filePath, err := b.path(name)
	if err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "delete", Err: err}
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "delete", Err: ebaymedia.ErrImageNotFound}
	}

	if err := os.Remove(filePath); err != nil {
		return &ebaymedia.StoreError{Backend: "fs", Name: name, Op: "delete", Err: err}
	}

	return nil
}

// RepairPermissions resets the media tree to the configured modes
func (b *Backend) RepairPermissions(ctx context.Context) (*ebaymedia.RepairReport, error) {
	return ebaymedia.RepairTree(b.baseDir, b.dirMode, b.fileMode)
}

// contentTypeFor detects the content type, preferring the extension
// and falling back to sniffing the first 512 bytes.
func contentTypeFor(filePath string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
		return byExt
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "application/octet-stream"
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(buffer[:n])
}
