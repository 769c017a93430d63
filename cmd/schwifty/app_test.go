package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/schwifty-ng/internal/config"
	"github.com/thesavant42/schwifty-ng/internal/models"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"826", 826, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"rick", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadPagesStopsAtLastPage(t *testing.T) {
	var calls []bool
	remaining := 2
	state := func() models.State {
		return models.Success{Page: models.NewLocalPage(nil), HasMore: remaining > 0}
	}
	load := func(more bool) error {
		calls = append(calls, more)
		if more {
			remaining--
		}
		return nil
	}

	require.NoError(t, loadPages(state, 1, true, load))
	assert.Equal(t, []bool{false, true, true}, calls)
}

func TestLoadPagesHonorsCount(t *testing.T) {
	var calls []bool
	state := func() models.State { return models.Success{HasMore: true} }
	load := func(more bool) error {
		calls = append(calls, more)
		return nil
	}

	require.NoError(t, loadPages(state, 3, false, load))
	assert.Equal(t, []bool{false, true, true}, calls)
}

func TestLoadPagesStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	state := func() models.State { return models.Success{HasMore: true} }
	load := func(more bool) error {
		calls++
		if more {
			return boom
		}
		return nil
	}

	assert.ErrorIs(t, loadPages(state, 5, false, load), boom)
	assert.Equal(t, 2, calls)

	// Error state: nothing more to append
	calls = 0
	state = func() models.State { return models.Error{Kind: models.KindNetwork} }
	require.NoError(t, loadPages(state, 5, false, func(bool) error { calls++; return nil }))
	assert.Equal(t, 1, calls)
}

func TestPrintState(t *testing.T) {
	rick := models.Character{ID: 1, Name: "Rick Sanchez", Status: "Alive"}

	var buf bytes.Buffer
	err := printState(&buf, "Characters", models.Success{
		Page:      models.NewLocalPage([]models.Character{rick}),
		FromCache: true,
		Notice:    "connection error: offline",
	})
	require.NoError(t, err)
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Rick Sanchez")
	assert.Contains(t, out, "Showing cached characters")
	assert.Contains(t, out, "connection error: offline")

	buf.Reset()
	err = printState(&buf, "Characters", models.Error{
		Kind:    models.KindStatus,
		Message: "API error (status 500)",
		Last:    models.NewLocalPage([]models.Character{rick}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status error")
	out = ansi.Strip(buf.String())
	assert.Contains(t, out, "Rick Sanchez")
	assert.Contains(t, out, "Showing the last results")

	assert.Error(t, printState(&buf, "Characters", models.Loading{}))
}

func TestApplyFlags(t *testing.T) {
	t.Cleanup(func() { rootFlags.dbPath, rootFlags.merge, rootFlags.strict = "", "", false })

	cmd := &cobra.Command{}
	cmd.Flags().BoolVar(&rootFlags.strict, "strict", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--strict"}))

	rootFlags.dbPath = "/tmp/x.db"
	rootFlags.merge = "upsert"

	c := &config.Config{}
	c.Sync.Merge = "replace"
	applyFlags(cmd, c)

	assert.Equal(t, "/tmp/x.db", c.Cache.Path)
	assert.Equal(t, "upsert", c.Sync.Merge)
	assert.True(t, c.Sync.StrictErrors)
}

func TestCacheStatsCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cache", "schwifty.db")
	t.Setenv("SCHWIFTY_LOG_FILE", filepath.Join(dir, "schwifty.log"))
	t.Cleanup(func() { rootFlags.dbPath, rootFlags.envDir = "", "." })

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"--env-dir", dir, "--db", dbPath, "cache", "stats"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.Execute())

	text := ansi.Strip(out.String())
	assert.Contains(t, text, dbPath)
	assert.Contains(t, text, "Characters: 0")
	assert.Contains(t, text, "Favorites:  0")
	assert.FileExists(t, filepath.Join(dir, "schwifty.log"))
}
