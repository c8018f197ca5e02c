package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// GalleryHandler serves the gallery listing endpoint
type GalleryHandler struct {
	service ebaymedia.Service
}

func NewGalleryHandler(service ebaymedia.Service) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// Routes returns the router for gallery endpoints. The listing is
// served at both the router root and /gallery so the router can be
// mounted at /api/v1/gallery or at a legacy prefix like
// /wp-json/chatbay/v1.
func (h *GalleryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(PublicCORS)
	r.Get("/", h.GetGallery)
	r.Get("/gallery", h.GetGallery)
	return r
}

// GetGallery lists the media directory as fixed-size groups of photo
// URLs. A missing directory yields an error descriptor with empty
// groups, not a failed request.
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.service.ListGallery(r.Context())
	if err != nil {
		slog.Error("Failed to list gallery", "error", err)
		http.Error(w, "failed to list gallery", http.StatusInternalServerError)
		return
	}

	if gallery.Error != "" {
		slog.Warn("Gallery degraded", "error", gallery.Error)
	}

	render.JSON(w, r, gallery)
}
