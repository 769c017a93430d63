package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters, cache first",
	Long: `Loads the character list through the cache. Cached characters are shown
when the API cannot be reached.

--page N loads pages 1 through N; --all follows the API until the last page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("page")
		all, _ := cmd.Flags().GetBool("all")
		if pages < 1 {
			return fmt.Errorf("--page must be at least 1")
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		err = ui.RunWithSpinner("Fetching characters...", func() error {
			return loadPages(func() models.State { return latest(a.vm) }, pages, all, func(more bool) error {
				return a.vm.Load(ctx, more)
			})
		})
		if err != nil {
			a.logs.Warn("List load incomplete", "error", err)
		}

		return printState(cmd.OutOrStdout(), "Characters", latest(a.vm))
	},
}

// loadPages loads page 1 and then appends until the wanted page count or the last page.
// It stops at the first failure; the catalog keeps whatever was shown before.
func loadPages(state func() models.State, pages int, all bool, load func(more bool) error) error {
	if err := load(false); err != nil {
		return err
	}
	for i := 1; all || i < pages; i++ {
		s, ok := state().(models.Success)
		if !ok || !s.HasMore {
			return nil
		}
		if err := load(true); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	listCmd.Flags().Int("page", 1, "Number of pages to load")
	listCmd.Flags().Bool("all", false, "Load every page")
	RootCmd.AddCommand(listCmd)
}
