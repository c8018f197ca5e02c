package analyzer

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Photo count bounds per listing. eBay accepts up to 12 photos.
const (
	DefaultPhotosPerItem = 4
	maxPhotosPerItem     = 12
)

var photoExtensions = []string{".jpg", ".jpeg", ".png"}

// Sanitizer vets photo URLs before they are handed to the vision model
// or written into a listing: https only, host allowlist, image
// extension, and a HEAD preflight confirming the URL is publicly
// reachable and serves an image.
type Sanitizer struct {
	allowedHosts map[string]struct{}
	client       *http.Client
}

// NewSanitizer creates a sanitizer that accepts the given hosts.
// Host comparison is case-insensitive.
func NewSanitizer(hosts []string, client *http.Client) *Sanitizer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &Sanitizer{allowedHosts: allowed, client: client}
}

// SanitizeURL normalizes and vets a single photo URL. It returns the
// cleaned URL, or "" if the URL fails any check.
func (s *Sanitizer) SanitizeURL(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// Plain-http gallery URLs are upgraded rather than rejected.
	if strings.HasPrefix(raw, "http://") {
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if _, ok := s.allowedHosts[strings.ToLower(parsed.Host)]; !ok {
		return ""
	}
	if !hasPhotoExtension(parsed.Path) {
		return ""
	}

	clean := url.URL{Scheme: "https", Host: parsed.Host, Path: parsed.Path}
	cleaned := clean.String()
	if !s.ensurePublic(ctx, cleaned) {
		return ""
	}
	return cleaned
}

// CollectPhotos sanitizes a batch of URLs, dropping failures and
// duplicates, keeping order, capped at maxPhotos (clamped to 1..12).
func (s *Sanitizer) CollectPhotos(ctx context.Context, raw []string, maxPhotos int) []string {
	limit := maxPhotos
	if limit < 1 {
		limit = 1
	}
	if limit > maxPhotosPerItem {
		limit = maxPhotosPerItem
	}

	cleaned := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, u := range raw {
		cu := s.SanitizeURL(ctx, u)
		if cu == "" {
			continue
		}
		if _, dup := seen[cu]; dup {
			continue
		}
		seen[cu] = struct{}{}
		cleaned = append(cleaned, cu)
		if len(cleaned) >= limit {
			break
		}
	}
	return cleaned
}

// ensurePublic HEADs the URL and requires a 200 with an image/*
// content type.
func (s *Sanitizer) ensurePublic(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	return strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "image/")
}

func hasPhotoExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range photoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
