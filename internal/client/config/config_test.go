package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000/api", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Minute, c.RefreshMargin)
	assert.Equal(t, 5*time.Second, c.MinRefreshDelay)
	assert.Equal(t, StoreSQLite, c.TokenStore)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 2*time.Minute, cfg.RefreshMargin)
	assert.Equal(t, 5*time.Second, cfg.MinRefreshDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "memory store ok", mutate: func(c *Config) { c.TokenStore = StoreMemory; c.DBPath = "" }},
		{name: "redis store ok", mutate: func(c *Config) { c.TokenStore = StoreRedis }},
		{name: "bad scheme", mutate: func(c *Config) { c.APIBaseURL = "ftp://x" }, wantErr: "invalid api base url"},
		{name: "no host", mutate: func(c *Config) { c.APIBaseURL = "http://" }, wantErr: "invalid api base url"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "request timeout"},
		{name: "negative margin", mutate: func(c *Config) { c.RefreshMargin = -time.Second }, wantErr: "refresh margin"},
		{name: "zero min delay", mutate: func(c *Config) { c.MinRefreshDelay = 0 }, wantErr: "min refresh delay"},
		{name: "unknown store", mutate: func(c *Config) { c.TokenStore = "cookie" }, wantErr: "unknown token store"},
		{name: "sqlite without path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: "db path"},
		{name: "redis without addr", mutate: func(c *Config) { c.TokenStore = StoreRedis; c.RedisAddr = "" }, wantErr: "address"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "rate limit"},
		{name: "rate without burst", mutate: func(c *Config) { c.RateLimit = 2; c.RateBurst = 0 }, wantErr: "rate burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
