package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotify", cfg.App.Name)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://dummyjson.com", cfg.Services.Quote.BaseURL)
	assert.Equal(t, DefaultPreloadLimit, cfg.Cache.PreloadLimit)
	assert.Equal(t, DefaultCacheMaxAge, cfg.Cache.MaxAge)
	assert.True(t, cfg.Connectivity.StartOnline)
	assert.False(t, cfg.Storage.Ephemeral)
	assert.Equal(t, "./data/quotify.db", cfg.Storage.RecordsPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("QUOTIFY_SERVER_PORT", "9999")
	t.Setenv("QUOTIFY_LOG_LEVEL", "debug")
	t.Setenv("QUOTIFY_CACHE_MAX_AGE", "1h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Cache.MaxAge)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantMsg: "server.port",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantMsg: "log.level",
		},
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantMsg: "app.environment",
		},
		{
			name:    "invalid quote base URL",
			mutate:  func(c *Config) { c.Services.Quote.BaseURL = "not a url" },
			wantMsg: "services.quote.baseurl",
		},
		{
			name:    "missing records path",
			mutate:  func(c *Config) { c.Storage.RecordsPath = "" },
			wantMsg: "storage.recordspath",
		},
		{
			name:    "zero preload limit",
			mutate:  func(c *Config) { c.Cache.PreloadLimit = 0 },
			wantMsg: "cache.preloadlimit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_EphemeralSkipsPaths(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Storage.Ephemeral = true
	cfg.Storage.RecordsPath = ""
	cfg.Storage.CachePath = ""

	assert.NoError(t, cfg.Validate())
}
