package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.ServerAddr)
	assert.Equal(t, "/img", config.ServeRoute)
	assert.Equal(t, "memory", config.CacheBackend)
	assert.Equal(t, 720*time.Hour, config.CacheLifetime)
	assert.Equal(t, 8192, config.MaxDimension)
	assert.Equal(t, 50_000_000, config.MaxSourcePixels)
	assert.Equal(t, []string{"*"}, config.AllowedOriginList())
	assert.NoError(t, config.Validate())
}

func TestLoad_EnvironmentOverridesConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "imgpipe.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("cache_backend: redis\nredis_addr: redis:6379\ncache_lifetime: 2h\n"), 0o644))

	t.Setenv("IMGPIPE_REDIS_ADDR", "cache.internal:6380")
	t.Setenv("IMGPIPE_ALLOWED_DOMAINS", "example.com, *.cdn.example.com")

	config, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "redis", config.CacheBackend)
	assert.Equal(t, "cache.internal:6380", config.RedisAddr)
	assert.Equal(t, 2*time.Hour, config.CacheLifetime)
	assert.Equal(t, []string{"example.com", "*.cdn.example.com"}, config.AllowedDomainList())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config, err := Load("")
		require.NoError(t, err)
		return config
	}

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown engine", func(c *Config) { c.WorkerEngine = "gimp" }},
		{"imaginary without url", func(c *Config) { c.WorkerEngine = "imaginary" }},
		{"unknown cache backend", func(c *Config) { c.CacheBackend = "memcached" }},
		{"mongo without connection string", func(c *Config) { c.CacheBackend = "mongo" }},
		{"relative serve route", func(c *Config) { c.ServeRoute = "img" }},
		{"malformed breakpoints", func(c *Config) { c.Breakpoints = "small=max-size=10" }},
		{"zero max dimension", func(c *Config) { c.MaxDimension = 0 }},
		{"max dimension over hard cap", func(c *Config) { c.MaxDimension = 1<<16 + 1 }},
		{"zero max source pixels", func(c *Config) { c.MaxSourcePixels = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.modify(config)

			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}
