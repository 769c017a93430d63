package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWritesPrefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schwifty.log")

	l, err := Open(path, "debug")
	require.NoError(t, err)

	l.For(PrefixAPI).Info("GET", "endpoint", "https://rickandmortyapi.com/api/character")
	l.For(PrefixDB).Debug("Committed", "op", "upsert")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "API")
	assert.Contains(t, out, "endpoint=https://rickandmortyapi.com/api/character")
	assert.Contains(t, out, "DB")
	assert.Contains(t, out, "op=upsert")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, log.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscardClose(t *testing.T) {
	l := Discard()
	l.For(PrefixUI).Info("nothing")
	assert.NoError(t, l.Close())
}
