// Package config builds an ebaymedia.Service from declarative server
// configuration, with environment overrides layered on defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/audit"
	fsstorage "github.com/chatbay/ebay-media/pkg/ebaymedia/storage/fs"
	memorystorage "github.com/chatbay/ebay-media/pkg/ebaymedia/storage/memory"
	s3storage "github.com/chatbay/ebay-media/pkg/ebaymedia/storage/s3"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/urlstrategy"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on
// top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		Environment: "development",
		GroupSize:   ebaymedia.DefaultGroupSize,
		Storage: StorageConfig{
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": "./ebay-media",
			},
		},
		RepairSchedule: "*/15 * * * *",
	}
}

// ServerConfig represents server configuration for the ebay-media service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Public URL configuration
	BaseURL    string // Application base URL for local photo URLs
	CDNBaseURL string // When set, photo URLs point at the CDN instead

	// Gallery configuration
	GroupSize int

	// Storage configuration
	Storage StorageConfig

	// Audit configuration; empty DatabaseURL means log-only events
	DatabaseURL string

	// Cron spec for the periodic permission repair pass
	RepairSchedule string
}

// StorageConfig represents configuration for the media store
type StorageConfig struct {
	Type   string // "fs", "memory", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.GroupSize < 1 {
		return errors.New("group size must be at least 1")
	}

	switch c.Storage.Type {
	case "fs", "memory", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}

// BuildService creates a Service instance from the server
// configuration. The returned cleanup function releases the audit
// database pool when one was opened.
func (c *ServerConfig) BuildService(ctx context.Context) (ebaymedia.Service, func(), error) {
	cleanup := func() {}

	store, err := c.buildStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build media store: %w", err)
	}

	sink, sinkCleanup, err := c.buildEventSink(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build event sink: %w", err)
	}
	if sinkCleanup != nil {
		cleanup = sinkCleanup
	}

	svc, err := ebaymedia.New(
		ebaymedia.WithStore(store),
		ebaymedia.WithURLStrategy(c.buildURLStrategy()),
		ebaymedia.WithEventSink(sink),
		ebaymedia.WithGroupSize(c.GroupSize),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return svc, cleanup, nil
}

// buildStore creates a MediaStore based on the configuration
func (c *ServerConfig) buildStore() (ebaymedia.MediaStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir: getString(c.Storage.Config, "base_dir", "./ebay-media"),
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 getString(c.Storage.Config, "region", "us-east-1"),
			Bucket:                 getString(c.Storage.Config, "bucket", ""),
			Prefix:                 getString(c.Storage.Config, "prefix", ""),
			AccessKeyID:            getString(c.Storage.Config, "access_key_id", ""),
			SecretAccessKey:        getString(c.Storage.Config, "secret_access_key", ""),
			Endpoint:               getString(c.Storage.Config, "endpoint", ""),
			UsePathStyle:           getBool(c.Storage.Config, "use_path_style", false),
			EnableSSE:              getBool(c.Storage.Config, "enable_sse", false),
			SSEAlgorithm:           getString(c.Storage.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(c.Storage.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(c.Storage.Config, "create_bucket_if_not_exist", false),
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
}

func (c *ServerConfig) buildURLStrategy() urlstrategy.Strategy {
	if c.CDNBaseURL != "" {
		return urlstrategy.NewCDN(c.CDNBaseURL)
	}
	return urlstrategy.NewLocal(c.BaseURL)
}

func (c *ServerConfig) buildEventSink(ctx context.Context) (ebaymedia.EventSink, func(), error) {
	if c.DatabaseURL == "" {
		return audit.NewLogSink(nil), nil, nil
	}

	sink, err := audit.NewPostgresSinkFromURL(ctx, c.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return sink, sink.Close, nil
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
