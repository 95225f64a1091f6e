// Package config loads runtime configuration for the credebt CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with a dotenv file as fallback (see parseEnv).
//     The file is chosen with -e/-env; otherwise ./.env is used if present.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ledger API
//	-t int      request timeout (seconds)
//	-s string   token store: memory, sqlite or redis
//	-d string   SQLite database path
//	-r string   redis address
//	-l string   log level
//
// Environment
//
//	CREDEBT_API_BASE_URL, CREDEBT_REQUEST_TIMEOUT ("15s"), CREDEBT_TOKEN_STORE,
//	CREDEBT_DB_PATH, CREDEBT_REDIS_ADDR, CREDEBT_REDIS_PREFIX,
//	CREDEBT_TOKEN_PASSPHRASE, CREDEBT_RATE_LIMIT, CREDEBT_RATE_BURST,
//	CREDEBT_LOG_LEVEL
//
// The token passphrase is read from the environment only so it never lands
// in a config file or shell history.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "2m" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://ledger.example.com/api",
//	  "request_timeout": "15s",
//	  "refresh_margin": "2m",
//	  "min_refresh_delay": "5s",
//	  "token_store": "sqlite",
//	  "db_path": "credebt.db"
//	}
package config
