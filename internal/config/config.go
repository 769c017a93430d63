package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/thesavant42/schwifty-ng/internal/api"
	"github.com/thesavant42/schwifty-ng/internal/catalog"
)

// EnvPrefix prefixes every environment variable (SCHWIFTY_API_BASE_URL, ...)
const EnvPrefix = "SCHWIFTY"

// Config holds all configuration for the application
type Config struct {
	// API holds the remote character API settings.
	API APIConfig `mapstructure:"api"`
	// Cache holds the local SQLite cache settings.
	Cache CacheConfig `mapstructure:"cache"`
	// Sync holds the cache/network reconciliation settings.
	Sync SyncConfig `mapstructure:"sync"`
	// Log holds the logger settings.
	Log LogConfig `mapstructure:"log"`
}

// APIConfig configures the HTTP client
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url" default:"https://rickandmortyapi.com/api"`
	Endpoint          string        `mapstructure:"endpoint" default:"character"`
	Dialect           string        `mapstructure:"dialect" default:"rickandmorty"`
	Timeout           time.Duration `mapstructure:"timeout" default:"30s"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" default:"5"`
	Burst             int           `mapstructure:"burst" default:"2"`
	MaxRetries        int           `mapstructure:"max_retries" default:"2"`
	RetryBackoff      time.Duration `mapstructure:"retry_backoff" default:"250ms"`
}

// CacheConfig locates the database. An empty path means ~/.schwifty/schwifty.db
type CacheConfig struct {
	Path string `mapstructure:"path" default:""`
}

// SyncConfig tunes the reconciliation policy
type SyncConfig struct {
	Merge        string        `mapstructure:"merge" default:"replace"`
	Debounce     time.Duration `mapstructure:"debounce" default:"300ms"`
	StrictErrors bool          `mapstructure:"strict_errors" default:"false"`
}

// LogConfig configures the file logger. An empty file means schwifty.log beside the database
type LogConfig struct {
	Level string `mapstructure:"level" default:"info"`
	File  string `mapstructure:"file" default:""`
}

// Load reads configuration from the environment and an optional .env file in dir
func Load(dir string) (*Config, error) {
	envPath := filepath.Join(dir, ".env")
	if dir == "" || dir == "." {
		envPath = ".env"
	}

	// Missing .env is fine
	_ = godotenv.Load(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	// api.base_url -> SCHWIFTY_API_BASE_URL
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues registers every mapstructure key with its default tag so
// AutomaticEnv can find it during Unmarshal
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// time.Duration is an int64, so only real structs recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	if _, err := api.ParseDialect(c.API.Dialect); err != nil {
		return err
	}
	if _, err := catalog.ParseMergeMode(c.Sync.Merge); err != nil {
		return err
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	return nil
}

// DatabasePath returns the configured database path or the default under the home directory
func (c *Config) DatabasePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "schwifty.db"
	}
	return filepath.Join(home, ".schwifty", "schwifty.db")
}

// LogPath returns the configured log file or schwifty.log beside the database
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(filepath.Dir(c.DatabasePath()), "schwifty.log")
}

// ClientOptions maps the API section onto api.Options
func (c *Config) ClientOptions() api.Options {
	dialect, _ := api.ParseDialect(c.API.Dialect)
	return api.Options{
		BaseURL:           c.API.BaseURL,
		Endpoint:          c.API.Endpoint,
		Dialect:           dialect,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		MaxRetries:        c.API.MaxRetries,
		RetryBackoff:      c.API.RetryBackoff,
	}
}

// Policy maps the sync section onto catalog.Policy
func (c *Config) Policy() catalog.Policy {
	merge, _ := catalog.ParseMergeMode(c.Sync.Merge)
	return catalog.Policy{
		Merge:        merge,
		Debounce:     c.Sync.Debounce,
		StrictErrors: c.Sync.StrictErrors,
	}
}
