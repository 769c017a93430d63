package main

import (
	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the local character cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		cached, err := a.store.CountCharacters(ctx)
		if err != nil {
			return err
		}
		favorites, err := a.store.CountFavorites(ctx)
		if err != nil {
			return err
		}
		version, err := a.store.SchemaVersion(ctx)
		if err != nil {
			return err
		}

		ui.PrintCacheStats(cmd.OutOrStdout(), a.cfg.DatabasePath(), cached, favorites, version)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached character, favorites included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if !yes {
			cached, err := a.store.CountCharacters(ctx)
			if err != nil {
				return err
			}
			favorites, err := a.store.CountFavorites(ctx)
			if err != nil {
				return err
			}
			confirmed, err := ui.ConfirmClearCache(cached, favorites)
			if err != nil {
				return err
			}
			if !confirmed {
				ui.PrintNotice(cmd.OutOrStdout(), "Cache left untouched")
				return nil
			}
		}

		if err := a.vm.ClearCache(ctx); err != nil {
			return err
		}
		ui.PrintSuccess("Cache cleared")
		return nil
	},
}

var cacheBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the cache database to a timestamped file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := ui.ExportDatabaseBackup(a.cfg.DatabasePath(), dir)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Backup written to " + path)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolP("yes", "y", false, "Clear without asking")
	cacheBackupCmd.Flags().String("dir", ".", "Directory for the backup file")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cacheBackupCmd)
	RootCmd.AddCommand(cacheCmd)
}
