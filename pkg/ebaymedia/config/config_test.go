package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 4, cfg.GroupSize)
	assert.Equal(t, "fs", cfg.Storage.Type)
	assert.Equal(t, "./ebay-media", cfg.Storage.Config["base_dir"])
	assert.Equal(t, "*/15 * * * *", cfg.RepairSchedule)
}

func TestLoadWithOptions(t *testing.T) {
	cfg, err := Load(func(c *ServerConfig) error {
		c.Port = "9090"
		c.GroupSize = 6
		c.Storage = StorageConfig{Type: "memory", Config: map[string]interface{}{}}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 6, cfg.GroupSize)
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(func(c *ServerConfig) error {
		c.GroupSize = 0
		return nil
	})
	assert.Error(t, err)

	_, err = Load(func(c *ServerConfig) error {
		c.Storage.Type = "ftp"
		return nil
	})
	assert.Error(t, err)
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load(func(c *ServerConfig) error {
		c.Storage = StorageConfig{Type: "memory", Config: map[string]interface{}{}}
		return nil
	})
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, svc)

	gallery, err := svc.ListGallery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, gallery.TotalImages)
}

func TestBuildServiceFS(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(func(c *ServerConfig) error {
		c.Storage = StorageConfig{
			Type:   "fs",
			Config: map[string]interface{}{"base_dir": dir},
		}
		return nil
	})
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, svc)
}

func TestGetHelpers(t *testing.T) {
	m := map[string]interface{}{
		"s":    "value",
		"b":    true,
		"bstr": "true",
	}

	assert.Equal(t, "value", getString(m, "s", "d"))
	assert.Equal(t, "d", getString(m, "missing", "d"))
	assert.True(t, getBool(m, "b", false))
	assert.True(t, getBool(m, "bstr", false))
	assert.False(t, getBool(m, "missing", false))
}
