package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/config"
	"github.com/thesavant42/schwifty-ng/internal/logging"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

// rootFlags override the environment and .env configuration
var rootFlags struct {
	envDir   string
	dbPath   string
	logLevel string
	baseURL  string
	dialect  string
	endpoint string
	merge    string
	strict   bool
}

// cfg is loaded once before any command runs
var cfg *config.Config

// RootCmd launches the interactive browser when called without a subcommand
var RootCmd = &cobra.Command{
	Use:   "schwifty",
	Short: "Character catalog browser",
	Long: `schwifty lists characters from the Rick and Morty (or Naruto) API,
caches them in a local SQLite database and keeps favorites across sessions.

Without a subcommand it opens the interactive browser.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return ui.RunBrowser(cmd.Context(), a.vm, a.logs.For(logging.PrefixUI))
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute(ctx context.Context) {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&rootFlags.envDir, "env-dir", ".", "Directory holding an optional .env file")
	f.StringVar(&rootFlags.dbPath, "db", "", "Path to the SQLite cache (default ~/.schwifty/schwifty.db)")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&rootFlags.baseURL, "base-url", "", "API base URL")
	f.StringVar(&rootFlags.dialect, "dialect", "", "Envelope dialect: rickandmorty, dattebayo (alias naruto)")
	f.StringVar(&rootFlags.endpoint, "endpoint", "", "Character endpoint path (character or characters)")
	f.StringVar(&rootFlags.merge, "merge", "", "How page 1 is written to the cache: replace or upsert")
	f.BoolVar(&rootFlags.strict, "strict", false, "Turn every remote failure into an error state")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(rootFlags.envDir)
	if err != nil {
		return err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, c *config.Config) {
	if rootFlags.dbPath != "" {
		c.Cache.Path = rootFlags.dbPath
	}
	if rootFlags.logLevel != "" {
		c.Log.Level = rootFlags.logLevel
	}
	if rootFlags.baseURL != "" {
		c.API.BaseURL = rootFlags.baseURL
	}
	if rootFlags.dialect != "" {
		c.API.Dialect = rootFlags.dialect
	}
	if rootFlags.endpoint != "" {
		c.API.Endpoint = rootFlags.endpoint
	}
	if rootFlags.merge != "" {
		c.Sync.Merge = rootFlags.merge
	}
	if cmd.Flags().Changed("strict") {
		c.Sync.StrictErrors = rootFlags.strict
	}
}
