package ebaymedia

import (
	"io/fs"
	"time"
)

// DefaultGroupSize is the number of photo URLs joined into one gallery
// group. Four photos make one listing item downstream.
const DefaultGroupSize = 4

// Permission targets for the media tree.
const (
	DirMode  fs.FileMode = 0o755
	FileMode fs.FileMode = 0o644
)

// MediaFile describes one image in the media directory.
type MediaFile struct {
	Name        string      `json:"name"`
	Size        int64       `json:"size"`
	Mode        fs.FileMode `json:"-"`
	ContentType string      `json:"content_type,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GalleryGroup is one batch of photo URLs joined with commas into a
// single field, the shape the listing exporter consumes.
type GalleryGroup struct {
	PhotoURLs string `json:"photo_urls"`
}

// GalleryResponse is the payload of the gallery endpoint.
//
// When the media directory is missing the response carries an Error
// descriptor and an empty group list instead of failing the request.
type GalleryResponse struct {
	TotalImages int            `json:"total_images"`
	TotalGroups int            `json:"total_groups"`
	Groups      []GalleryGroup `json:"groups"`
	Error       string         `json:"error,omitempty"`
}

// RepairReport summarizes one permission-repair pass over the media
// tree. Repair is best-effort: failures are counted, never fatal.
type RepairReport struct {
	DirsChecked  int       `json:"dirs_checked"`
	DirsFixed    int       `json:"dirs_fixed"`
	FilesChecked int       `json:"files_checked"`
	FilesFixed   int       `json:"files_fixed"`
	Failures     int       `json:"failures"`
	Errors       []string  `json:"errors,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
