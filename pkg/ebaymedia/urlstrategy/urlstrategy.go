// Package urlstrategy decides how stored image names become public
// photo URLs in gallery responses.
package urlstrategy

import (
	"fmt"
	"net/url"
	"strings"
)

// MediaPath is the public path segment the media directory is served
// under. Downstream consumers key their host allowlists on it.
const MediaPath = "ebay-media"

// Strategy defines the interface for photo URL generation
type Strategy interface {
	// PhotoURL creates the public URL for a stored image name
	PhotoURL(name string) string
}

// LocalStrategy serves photos from the application's own media route
type LocalStrategy struct {
	baseURL string
}

// NewLocal creates a strategy pointing at the application host, e.g.
// "https://chatbay.site". An empty base yields root-relative URLs.
func NewLocal(baseURL string) *LocalStrategy {
	return &LocalStrategy{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// PhotoURL creates a URL under the local media route
func (s *LocalStrategy) PhotoURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, MediaPath, url.PathEscape(name))
}

// CDNStrategy generates URLs that point directly at a CDN host
type CDNStrategy struct {
	cdnBaseURL string
}

// NewCDN creates a CDN URL strategy, e.g. "https://cdn.chatbay.site"
func NewCDN(cdnBaseURL string) *CDNStrategy {
	return &CDNStrategy{cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/")}
}

// PhotoURL creates a direct CDN URL for the image
func (s *CDNStrategy) PhotoURL(name string) string {
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, url.PathEscape(name))
}
