package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided
// prefix.
//
// Server:
//
//	PORT - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//
// URLs:
//
//	MEDIA_BASE_URL - Public base URL for locally served photos
//	CDN_BASE_URL - When set, photo URLs point at this CDN host
//
// Gallery:
//
//	GALLERY_GROUP_SIZE - Photos per gallery group (default: 4)
//
// Storage:
//
//	STORAGE_URL - One of:
//	              "file:///var/www/ebay-media" - Local media directory (default)
//	              "memory://" - In-memory store
//	              "s3://bucket?region=us-east-1&prefix=ebay-media" - S3 store
//
// Audit:
//
//	DATABASE_URL - Postgres connection string for the media_events
//	               sink; empty means log-only events
//
// Maintenance:
//
//	REPAIR_SCHEDULE - Cron spec for the periodic permission repair
//	                  pass (default: "*/15 * * * *")
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "MEDIA_BASE_URL"); ok {
			c.BaseURL = v
		}
		if v, ok := lookupEnv(prefix, "CDN_BASE_URL"); ok {
			c.CDNBaseURL = v
		}
		if v, ok := lookupEnv(prefix, "DATABASE_URL"); ok {
			c.DatabaseURL = v
		}
		if v, ok := lookupEnv(prefix, "REPAIR_SCHEDULE"); ok && v != "" {
			c.RepairSchedule = v
		}

		if v, ok := lookupEnv(prefix, "GALLERY_GROUP_SIZE"); ok && v != "" {
			size, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer for %sGALLERY_GROUP_SIZE: %w", prefix, err)
			}
			c.GroupSize = size
		}

		if v, ok := lookupEnv(prefix, "STORAGE_URL"); ok && v != "" {
			if err := applyStorageURL(v, c); err != nil {
				return err
			}
		}

		return nil
	}
}

// applyStorageURL configures the media store from a storage URL
func applyStorageURL(storageURL string, c *ServerConfig) error {
	switch {
	case storageURL == "memory" || storageURL == "memory://":
		c.Storage = StorageConfig{Type: "memory", Config: map[string]interface{}{}}
		return nil

	case strings.HasPrefix(storageURL, "file://"):
		path := strings.TrimPrefix(storageURL, "file://")
		if path == "" {
			return fmt.Errorf("media directory path cannot be empty in STORAGE_URL")
		}
		c.Storage = StorageConfig{
			Type:   "fs",
			Config: map[string]interface{}{"base_dir": path},
		}
		return nil

	case strings.HasPrefix(storageURL, "s3://"):
		return applyS3StorageURL(storageURL, c)
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'file://...', 'memory://', or 's3://...')", storageURL)
}

// applyS3StorageURL configures S3 storage from a URL of the form
// s3://bucket?region=us-east-1&endpoint=http://localhost:9000&prefix=ebay-media
func applyS3StorageURL(storageURL string, c *ServerConfig) error {
	u, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
	}

	cfg := map[string]interface{}{
		"bucket": u.Host,
		"region": "us-east-1",
	}
	if region := u.Query().Get("region"); region != "" {
		cfg["region"] = region
	}
	if endpoint := u.Query().Get("endpoint"); endpoint != "" {
		cfg["endpoint"] = endpoint
		cfg["use_path_style"] = true
	}
	if prefix := u.Query().Get("prefix"); prefix != "" {
		cfg["prefix"] = prefix
	}

	if accessKey, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok && accessKey != "" {
		cfg["access_key_id"] = accessKey
	}
	if secretKey, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok && secretKey != "" {
		cfg["secret_access_key"] = secretKey
	}
	if region, ok := os.LookupEnv("AWS_REGION"); ok && region != "" {
		cfg["region"] = region
	}

	c.Storage = StorageConfig{Type: "s3", Config: cfg}
	return nil
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}
