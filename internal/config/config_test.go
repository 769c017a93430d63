package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/schwifty-ng/internal/api"
	"github.com/thesavant42/schwifty-ng/internal/catalog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "character", cfg.API.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5.0, cfg.API.RequestsPerSecond)
	assert.Equal(t, 2, cfg.API.MaxRetries)
	assert.Equal(t, 300*time.Millisecond, cfg.Sync.Debounce)
	assert.False(t, cfg.Sync.StrictErrors)
	assert.Equal(t, "info", cfg.Log.Level)

	policy := cfg.Policy()
	assert.Equal(t, catalog.MergeReplace, policy.Merge)
	assert.Equal(t, api.DialectRickAndMorty, cfg.ClientOptions().Dialect)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHWIFTY_API_BASE_URL", "https://dattebayo-api.onrender.com")
	t.Setenv("SCHWIFTY_API_ENDPOINT", "characters")
	t.Setenv("SCHWIFTY_API_DIALECT", "dattebayo")
	t.Setenv("SCHWIFTY_API_TIMEOUT", "5s")
	t.Setenv("SCHWIFTY_SYNC_MERGE", "upsert")
	t.Setenv("SCHWIFTY_SYNC_STRICT_ERRORS", "true")
	t.Setenv("SCHWIFTY_CACHE_PATH", "/tmp/naruto.db")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	opts := cfg.ClientOptions()
	assert.Equal(t, "https://dattebayo-api.onrender.com", opts.BaseURL)
	assert.Equal(t, "characters", opts.Endpoint)
	assert.Equal(t, api.DialectDattebayo, opts.Dialect)
	assert.Equal(t, 5*time.Second, opts.Timeout)

	policy := cfg.Policy()
	assert.Equal(t, catalog.MergeUpsert, policy.Merge)
	assert.True(t, policy.StrictErrors)

	assert.Equal(t, "/tmp/naruto.db", cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp", "schwifty.log"), cfg.LogPath())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCHWIFTY_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SCHWIFTY_LOG_LEVEL") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"Dialect", "SCHWIFTY_API_DIALECT", "pokeapi"},
		{"Merge", "SCHWIFTY_SYNC_MERGE", "append"},
		{"Retries", "SCHWIFTY_API_MAX_RETRIES", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestLogPathOverride(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Path: "/data/cache.db"}, Log: LogConfig{File: "/var/log/schwifty.log"}}
	assert.Equal(t, "/var/log/schwifty.log", cfg.LogPath())

	cfg.Log.File = ""
	assert.Equal(t, filepath.Join("/data", "schwifty.log"), cfg.LogPath())
}
