package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/credebt/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with CREDEBT_* variables. Process environment
// wins over the dotenv file; the file is read, not exported, so it does not
// leak into child processes. An explicit -e/-env file must exist; the
// implicit ./.env is optional. Malformed values panic like the other loaders.
func parseEnv(cfg *Config) {
	file := flagx.EnvFileFlags()
	explicit := file != ""
	if !explicit {
		file = defaultEnvFile
	}

	values, err := godotenv.Read(file)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		values = map[string]string{}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	applyEnv(cfg, lookup)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("CREDEBT_API_BASE_URL", &cfg.APIBaseURL)
	dur("CREDEBT_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("CREDEBT_REFRESH_MARGIN", &cfg.RefreshMargin)
	dur("CREDEBT_MIN_REFRESH_DELAY", &cfg.MinRefreshDelay)
	str("CREDEBT_TOKEN_STORE", &cfg.TokenStore)
	str("CREDEBT_DB_PATH", &cfg.DBPath)
	str("CREDEBT_REDIS_ADDR", &cfg.RedisAddr)
	str("CREDEBT_REDIS_PREFIX", &cfg.RedisPrefix)
	str("CREDEBT_TOKEN_PASSPHRASE", &cfg.TokenPassphrase)
	str("CREDEBT_LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup("CREDEBT_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.RateLimit = f
	}
	if v, ok := lookup("CREDEBT_RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.RateBurst = n
	}
}
