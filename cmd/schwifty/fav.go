package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite characters",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite characters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		favorites, err := a.store.FavoriteCharacters(cmd.Context())
		if err != nil {
			return err
		}
		ui.PrintCharacterTable(cmd.OutOrStdout(), fmt.Sprintf("Favorites (%d)", len(favorites)), favorites)
		return nil
	},
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add or remove a character from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var c models.Character
		if err := ui.RunWithSpinner(fmt.Sprintf("Looking up character %d...", id), func() (err error) {
			c, err = a.vm.Character(ctx, id)
			return err
		}); err != nil {
			return fmt.Errorf("failed to load character %d: %w", id, err)
		}

		favorite, err := a.vm.ToggleFavorite(ctx, c)
		if err != nil {
			return err
		}
		if favorite {
			ui.PrintSuccess("Added to favorites: " + c.Name)
		} else {
			ui.PrintSuccess("Removed from favorites: " + c.Name)
		}
		return nil
	},
}

var favExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the favorites list to a markdown file",
	Long: `Writes favorites as a markdown table. Without --out the filename is asked
for, defaulting to favorites-YYYY-MM-DD.md; --yes takes the default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		favorites, err := a.store.FavoriteCharacters(cmd.Context())
		if err != nil {
			return err
		}

		if out == "" {
			out = ui.DefaultExportName(time.Now())
			if !yes {
				if out, err = ui.PromptForFilename(out); err != nil {
					return err
				}
			}
		}

		if err := ui.ExportFavoritesMarkdown(favorites, out); err != nil {
			return err
		}
		abs, _ := filepath.Abs(out)
		ui.PrintSuccess(fmt.Sprintf("Exported %d favorites to %s", len(favorites), abs))
		return nil
	},
}

func init() {
	favExportCmd.Flags().StringP("out", "o", "", "Output markdown file")
	favExportCmd.Flags().BoolP("yes", "y", false, "Use the default filename without asking")

	favCmd.AddCommand(favListCmd, favToggleCmd, favExportCmd)
	RootCmd.AddCommand(favCmd)
}
