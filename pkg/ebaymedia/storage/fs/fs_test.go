package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: filepath.Join(tmp, "ebay-media")})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	name := "photo1.jpg"
	data := []byte("fake jpeg bytes")

	if err := backend.Upload(ctx, name, bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	meta, err := backend.Meta(ctx, name)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}
	if meta.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", meta.ContentType)
	}

	rc, err := backend.Download(ctx, name)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	files, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0].Name != name {
		t.Fatalf("unexpected listing: %+v", files)
	}

	if err := backend.Delete(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := backend.Meta(ctx, name); !errors.Is(err, ebaymedia.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestFSBackend_UploadMode(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	if err := backend.Upload(context.Background(), "a.jpg", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("upload: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmp, "a.jpg"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected mode 0644, got %v", info.Mode().Perm())
	}
}

func TestFSBackend_RejectsPathNames(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	for _, name := range []string{"", "../escape.jpg", "a/b.jpg", ".hidden.jpg"} {
		if err := backend.Upload(ctx, name, bytes.NewReader([]byte("x"))); !errors.Is(err, ebaymedia.ErrInvalidImageName) {
			t.Fatalf("expected ErrInvalidImageName for %q, got %v", name, err)
		}
	}
}

func TestFSBackend_ListMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")
	backend, err := New(Config{BaseDir: dir})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	_, err = backend.List(context.Background())
	if !errors.Is(err, ebaymedia.ErrDirectoryMissing) {
		t.Fatalf("expected ErrDirectoryMissing, got %v", err)
	}
}

func TestFSBackend_RepairPermissions(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	path := filepath.Join(tmp, "locked.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	report, err := backend.RepairPermissions(context.Background())
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if report.FilesFixed != 1 {
		t.Fatalf("expected 1 file fixed, got %d", report.FilesFixed)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected mode 0644, got %v", info.Mode().Perm())
	}
}
