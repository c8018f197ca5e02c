package ebaymedia

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/chatbay/ebay-media/pkg/ebaymedia/urlstrategy"
)

// service implements the Service interface
type service struct {
	store     MediaStore
	urls      urlstrategy.Strategy
	sink      EventSink
	groupSize int
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the media storage backend
func WithStore(store MediaStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithURLStrategy sets the public photo URL strategy
func WithURLStrategy(strategy urlstrategy.Strategy) Option {
	return func(s *service) {
		s.urls = strategy
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.sink = sink
	}
}

// WithGroupSize sets the gallery batch size
func WithGroupSize(size int) Option {
	return func(s *service) {
		s.groupSize = size
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		urls:      urlstrategy.NewLocal(""),
		sink:      NewNoopEventSink(),
		groupSize: DefaultGroupSize,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, errors.New("media store is required")
	}

	return s, nil
}

// ValidateName rejects names that are empty or would escape the flat
// media directory.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidImageName
	}
	return nil
}

func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*MediaFile, error) {
	if err := ValidateName(req.FileName); err != nil {
		return nil, &MediaError{Name: req.FileName, Op: "upload", Err: err}
	}
	if !IsImageName(req.FileName) {
		return nil, &MediaError{Name: req.FileName, Op: "upload", Err: ErrUnsupportedImageType}
	}

	encoded, contentType, err := StripMetadata(req.Data, req.FileName)
	if err != nil {
		return nil, &MediaError{Name: req.FileName, Op: "upload", Err: err}
	}

	if err := s.store.Upload(ctx, req.FileName, bytes.NewReader(encoded)); err != nil {
		return nil, &MediaError{Name: req.FileName, Op: "upload", Err: err}
	}

	file := &MediaFile{
		Name:        req.FileName,
		Size:        int64(len(encoded)),
		Mode:        FileMode,
		ContentType: contentType,
		UpdatedAt:   time.Now().UTC(),
	}

	// Fire event; sink failures never fail the upload.
	_ = s.sink.ImageUploaded(ctx, file)

	// Opportunistic mode recheck after every upload, best-effort.
	if report, err := s.store.RepairPermissions(ctx); err == nil {
		_ = s.sink.PermissionsRepaired(ctx, report)
	}

	return file, nil
}

func (s *service) GetImage(ctx context.Context, name string) (*MediaFile, io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, &MediaError{Name: name, Op: "get", Err: err}
	}

	meta, err := s.store.Meta(ctx, name)
	if err != nil {
		return nil, nil, &MediaError{Name: name, Op: "get", Err: err}
	}

	rc, err := s.store.Download(ctx, name)
	if err != nil {
		return nil, nil, &MediaError{Name: name, Op: "get", Err: err}
	}

	return meta, rc, nil
}

func (s *service) ListImages(ctx context.Context) ([]MediaFile, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	images := files[:0]
	for _, f := range files {
		if IsImageName(f.Name) {
			images = append(images, f)
		}
	}
	return images, nil
}

func (s *service) ListGallery(ctx context.Context) (*GalleryResponse, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		// A missing directory degrades to an error descriptor with an
		// empty group list instead of failing the request.
		if errors.Is(err, ErrDirectoryMissing) {
			return &GalleryResponse{
				Groups: []GalleryGroup{},
				Error:  "media directory not found",
			}, nil
		}
		return nil, err
	}

	return BuildGallery(files, s.urls, s.groupSize), nil
}

func (s *service) Thumbnail(ctx context.Context, name string, maxDim uint) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, &MediaError{Name: name, Op: "thumbnail", Err: err}
	}

	rc, err := s.store.Download(ctx, name)
	if err != nil {
		return nil, &MediaError{Name: name, Op: "thumbnail", Err: err}
	}
	defer rc.Close()

	thumb, err := MakeThumbnail(rc, maxDim)
	if err != nil {
		return nil, &MediaError{Name: name, Op: "thumbnail", Err: err}
	}
	return thumb, nil
}

func (s *service) DeleteImage(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return &MediaError{Name: name, Op: "delete", Err: err}
	}

	if err := s.store.Delete(ctx, name); err != nil {
		return &MediaError{Name: name, Op: "delete", Err: err}
	}

	_ = s.sink.ImageDeleted(ctx, name)
	return nil
}

func (s *service) RepairPermissions(ctx context.Context) (*RepairReport, error) {
	report, err := s.store.RepairPermissions(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.sink.PermissionsRepaired(ctx, report)
	return report, nil
}
