package ebaymedia

import (
	"path"
	"sort"
	"strings"

	"github.com/chatbay/ebay-media/pkg/ebaymedia/urlstrategy"
)

// imageExtensions is the allowlist the gallery and upload pipeline
// share. Matching is case-insensitive.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageName reports whether the file name carries an accepted image
// extension (jpg/jpeg/png, case-insensitive).
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// BuildGallery sorts the image files in natural order and partitions
// them into groups of groupSize comma-joined photo URLs. Non-image
// files are filtered out. A groupSize below one falls back to
// DefaultGroupSize.
func BuildGallery(files []MediaFile, urls urlstrategy.Strategy, groupSize int) *GalleryResponse {
	if groupSize < 1 {
		groupSize = DefaultGroupSize
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if IsImageName(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})

	groups := make([]GalleryGroup, 0, (len(names)+groupSize-1)/groupSize)
	for start := 0; start < len(names); start += groupSize {
		end := start + groupSize
		if end > len(names) {
			end = len(names)
		}
		batch := make([]string, 0, end-start)
		for _, name := range names[start:end] {
			batch = append(batch, urls.PhotoURL(name))
		}
		groups = append(groups, GalleryGroup{PhotoURLs: strings.Join(batch, ",")})
	}

	return &GalleryResponse{
		TotalImages: len(names),
		TotalGroups: len(groups),
		Groups:      groups,
	}
}
