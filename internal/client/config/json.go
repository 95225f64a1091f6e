package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/credebt/internal/flagx"
	"github.com/dmitrijs2005/credebt/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-valued fields that are absent from the file leave Config untouched.
type JsonConfig struct {
	APIBaseURL      string          `json:"api_base_url"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	RefreshMargin   *timex.Duration `json:"refresh_margin"`
	MinRefreshDelay *timex.Duration `json:"min_refresh_delay"`
	TokenStore      string          `json:"token_store"`
	DBPath          string          `json:"db_path"`
	RedisAddr       string          `json:"redis_addr"`
	RedisPrefix     string          `json:"redis_prefix"`
	RateLimit       *float64        `json:"rate_limit"`
	RateBurst       *int            `json:"rate_burst"`
	LogLevel        string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without the flag it does nothing. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TokenStore, jc.TokenStore)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshMargin != nil {
		cfg.RefreshMargin = jc.RefreshMargin.Duration
	}
	if jc.MinRefreshDelay != nil {
		cfg.MinRefreshDelay = jc.MinRefreshDelay.Duration
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.RateBurst != nil {
		cfg.RateBurst = *jc.RateBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
