package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"github.com/thesavant42/schwifty-ng/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one character, from the cache when possible",
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

		var c models.Character
		ctx := cmd.Context()
		if err := ui.RunWithSpinner(fmt.Sprintf("Looking up character %d...", id), func() (err error) {
			c, err = a.vm.Character(ctx, id)
			return err
		}); err != nil {
			return fmt.Errorf("failed to load character %d: %w", id, err)
		}

		ui.PrintCharacterDetail(cmd.OutOrStdout(), c)
		return nil
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid character id %q", s)
	}
	return id, nil
}

func init() {
	RootCmd.AddCommand(showCmd)
}
