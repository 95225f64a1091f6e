package config

import (
	"fmt"
	"net/url"
	"time"
)

// Token store kinds accepted in Config.TokenStore.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the credebt CLI.
//
// Fields:
//   - APIBaseURL: base URL of the ledger REST API, e.g. http://localhost:3000/api.
//   - RequestTimeout: timeout applied to every API call, the refresh call included.
//   - RefreshMargin: how long before access-token expiry the proactive refresh fires.
//   - MinRefreshDelay: lower bound for the proactive refresh delay.
//   - TokenStore: where tokens persist between runs (memory, sqlite, redis).
//   - DBPath: SQLite file for the sqlite store.
//   - RedisAddr, RedisPrefix: connection and key prefix for the redis store.
//   - TokenPassphrase: when set, tokens are encrypted at rest. Environment only.
//   - RateLimit, RateBurst: client-side request rate limit (0 disables).
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	RefreshMargin   time.Duration
	MinRefreshDelay time.Duration
	TokenStore      string
	DBPath          string
	RedisAddr       string
	RedisPrefix     string
	TokenPassphrase string
	RateLimit       float64
	RateBurst       int
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/api"
	c.RequestTimeout = 15 * time.Second
	c.RefreshMargin = 2 * time.Minute
	c.MinRefreshDelay = 5 * time.Second
	c.TokenStore = StoreSQLite
	c.DBPath = "credebt.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "credebt:"
	c.RateLimit = 0
	c.RateBurst = 5
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a dotenv file), JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RefreshMargin < 0 {
		return fmt.Errorf("refresh margin must not be negative, got %s", c.RefreshMargin)
	}
	if c.MinRefreshDelay <= 0 {
		return fmt.Errorf("min refresh delay must be positive, got %s", c.MinRefreshDelay)
	}
	switch c.TokenStore {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("sqlite token store needs a db path")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis token store needs an address")
		}
	default:
		return fmt.Errorf("unknown token store %q", c.TokenStore)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("rate burst must be positive when rate limit is set")
	}
	return nil
}
