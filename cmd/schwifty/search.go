package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cached and remote characters by name",
	Long: `Matches names case-insensitively in the local cache and asks the API for the
same name. Results are merged by id; cached matches are shown when the API fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := ui.RunWithSpinner("Searching for "+query+"...", func() error {
			return a.vm.Search(ctx, query)
		}); err != nil {
			a.logs.Warn("Search incomplete", "query", query, "error", err)
		}

		return printState(cmd.OutOrStdout(), "Matches for \""+query+"\"", latest(a.vm))
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)
}
