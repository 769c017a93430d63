// Package config loads schwifty settings from the environment.
//
// Values come from SCHWIFTY_* environment variables, optionally seeded by a
// .env file, with defaults taken from the struct tags. Command line flags
// are applied on top by cmd/schwifty.
//
// # Variables
//
//   - SCHWIFTY_API_BASE_URL, SCHWIFTY_API_ENDPOINT, SCHWIFTY_API_DIALECT
//     (rickandmorty or dattebayo), SCHWIFTY_API_TIMEOUT,
//     SCHWIFTY_API_REQUESTS_PER_SECOND, SCHWIFTY_API_BURST,
//     SCHWIFTY_API_MAX_RETRIES, SCHWIFTY_API_RETRY_BACKOFF
//   - SCHWIFTY_CACHE_PATH
//   - SCHWIFTY_SYNC_MERGE (replace or upsert), SCHWIFTY_SYNC_DEBOUNCE,
//     SCHWIFTY_SYNC_STRICT_ERRORS
//   - SCHWIFTY_LOG_LEVEL, SCHWIFTY_LOG_FILE
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := api.NewClient(cfg.ClientOptions())
package config
