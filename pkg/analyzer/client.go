package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

const userAgent = "ChatbayAnalyzer/1.0"

var (
	// ErrGalleryUnavailable indicates the gallery endpoint could not be
	// reached after retries.
	ErrGalleryUnavailable = errors.New("gallery unavailable")

	// ErrGalleryBadResponse indicates the gallery endpoint answered with
	// a non-retryable error status.
	ErrGalleryBadResponse = errors.New("gallery returned error status")
)

// RetryConfig holds retry/backoff settings for outbound requests
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

// DefaultRetryConfig returns the defaults used for gallery fetches
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
	}
}

// GalleryClient fetches photo groups from a gallery endpoint with
// exponential backoff on transient failures.
type GalleryClient struct {
	url    string
	client *http.Client
	retry  RetryConfig
}

// NewGalleryClient creates a client for the given gallery URL
func NewGalleryClient(url string, client *http.Client, retry RetryConfig) *GalleryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GalleryClient{url: url, client: client, retry: retry}
}

// FetchGroups returns the photo groups currently in the gallery. A
// gallery-level error descriptor (missing media directory) yields an
// empty slice, not an error.
func (c *GalleryClient) FetchGroups(ctx context.Context) ([]ebaymedia.GalleryGroup, error) {
	resp, err := c.get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrGalleryBadResponse, resp.StatusCode)
	}

	var gallery ebaymedia.GalleryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&gallery); err != nil {
		return nil, fmt.Errorf("decode gallery response: %w", err)
	}

	if gallery.Error != "" {
		slog.Warn("Gallery degraded", "error", gallery.Error)
	}
	slog.Info("Gallery fetched", "groups", len(gallery.Groups))
	return gallery.Groups, nil
}

// get executes a GET with retry on network failures and 429/503/504.
// 4xx responses return immediately.
func (c *GalleryClient) get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	backoff := c.retry.InitialBackoff

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * c.retry.BackoffFactor)
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("Gallery request failed, will retry", "attempt", attempt+1, "error", err)
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp.Body.Close()
			slog.Warn("Gallery returned retryable status", "attempt", attempt+1, "status", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGalleryUnavailable, c.retry.MaxRetries+1, lastErr)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
