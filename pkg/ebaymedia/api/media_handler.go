package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// Largest accepted multipart upload. Listing photos are phone shots;
// 32 MiB leaves generous headroom.
const maxUploadBytes = 32 << 20

// MediaHandler handles media upload, serving and management endpoints
type MediaHandler struct {
	service ebaymedia.Service
}

func NewMediaHandler(service ebaymedia.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Routes returns the router for media management endpoints
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Delete("/{name}", h.Delete)
	r.Get("/{name}/thumbnail", h.Thumbnail)
	return r
}

// ServeRoutes returns the router for the public media directory, with
// open CORS and the immutable cache directive.
func (h *MediaHandler) ServeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(PublicCORS)
	r.Use(ImmutableCache)
	r.Get("/{name}", h.Serve)
	r.Head("/{name}", h.Serve)
	return r
}

// AdminRoutes returns the router for maintenance endpoints
func (h *MediaHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/repair", h.Repair)
	return r
}

// UploadResponse represents the response after uploading an image
type UploadResponse struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload accepts a multipart image, strips its metadata and stores it
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploaded, err := h.service.UploadImage(r.Context(), ebaymedia.UploadImageRequest{
		FileName: header.Filename,
		Data:     file,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ebaymedia.ErrUnsupportedImageType) ||
			errors.Is(err, ebaymedia.ErrInvalidImageName) ||
			errors.Is(err, ebaymedia.ErrDecodeFailed) {
			status = http.StatusBadRequest
		}
		slog.Error("Failed to upload image", "file_name", header.Filename, "error", err)
		http.Error(w, err.Error(), status)
		return
	}

	slog.Info("Image uploaded", "name", uploaded.Name, "size", uploaded.Size)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{
		Name:        uploaded.Name,
		Size:        uploaded.Size,
		ContentType: uploaded.ContentType,
	})
}

// List returns the image files currently in the media directory
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context())
	if err != nil {
		if errors.Is(err, ebaymedia.ErrDirectoryMissing) {
			render.JSON(w, r, []ebaymedia.MediaFile{})
			return
		}
		slog.Error("Failed to list images", "error", err)
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, images)
}

// Serve streams a stored image with its content type
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	meta, rc, err := h.service.GetImage(r.Context(), name)
	if err != nil {
		if errors.Is(err, ebaymedia.ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to serve image", "name", name, "error", err)
		http.Error(w, "failed to serve image", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream image", "name", name, "error", err)
	}
}

// Thumbnail returns a scaled JPEG of a stored image. The max_dim query
// parameter bounds the longer edge (default 256).
func (h *MediaHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	maxDim := uint(256)
	if v := r.URL.Query().Get("max_dim"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil || parsed == 0 {
			http.Error(w, "invalid max_dim", http.StatusBadRequest)
			return
		}
		maxDim = uint(parsed)
	}

	thumb, err := h.service.Thumbnail(r.Context(), name, maxDim)
	if err != nil {
		if errors.Is(err, ebaymedia.ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to build thumbnail", "name", name, "error", err)
		http.Error(w, "failed to build thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(thumb)
}

// Delete removes a stored image
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.DeleteImage(r.Context(), name); err != nil {
		if errors.Is(err, ebaymedia.ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete image", "name", name, "error", err)
		http.Error(w, "failed to delete image", http.StatusInternalServerError)
		return
	}

	slog.Info("Image deleted", "name", name)
	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// Repair runs a permission-repair pass and returns the report.
func (h *MediaHandler) Repair(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RepairPermissions(r.Context())
	if err != nil {
		if errors.Is(err, ebaymedia.ErrDirectoryMissing) {
			http.Error(w, "media directory not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to repair permissions", "error", err)
		http.Error(w, "failed to repair permissions", http.StatusInternalServerError)
		return
	}

	slog.Info("Permissions repaired",
		"dirs_fixed", report.DirsFixed,
		"files_fixed", report.FilesFixed,
		"failures", report.Failures)
	render.JSON(w, r, report)
}
