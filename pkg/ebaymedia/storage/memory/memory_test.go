package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

func TestMemoryBackend_BasicOps(t *testing.T) {
	backend := New()
	ctx := context.Background()
	data := []byte("image bytes")

	if err := backend.Upload(ctx, "a.jpg", bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	rc, err := backend.Download(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, data) {
		t.Fatalf("download mismatch: %q", got)
	}

	meta, err := backend.Meta(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}
	if meta.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", meta.ContentType)
	}

	files, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	if err := backend.Delete(ctx, "a.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := backend.Delete(ctx, "a.jpg"); !errors.Is(err, ebaymedia.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestMemoryBackend_NotFound(t *testing.T) {
	backend := New()
	ctx := context.Background()

	if _, err := backend.Download(ctx, "nope.jpg"); !errors.Is(err, ebaymedia.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if _, err := backend.Meta(ctx, "nope.jpg"); !errors.Is(err, ebaymedia.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestMemoryBackend_SetMissing(t *testing.T) {
	backend := New()
	backend.SetMissing(true)

	if _, err := backend.List(context.Background()); !errors.Is(err, ebaymedia.ErrDirectoryMissing) {
		t.Fatalf("expected ErrDirectoryMissing, got %v", err)
	}

	backend.SetMissing(false)
	if _, err := backend.List(context.Background()); err != nil {
		t.Fatalf("list after reset: %v", err)
	}
}

func TestMemoryBackend_RepairIsNoop(t *testing.T) {
	backend := New()
	report, err := backend.RepairPermissions(context.Background())
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if report.Failures != 0 || report.FilesFixed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
