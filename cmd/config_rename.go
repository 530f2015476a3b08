package cmd

import (
	"fmt"

	"github.com/brogergvhs/r6scrape/internal/config"

	"github.com/spf13/cobra"
)

var configRenameCmd = &cobra.Command{
	Use:   "rename <old_label> <new_label>",
	Short: "Rename a scrape profile",
	Long:  "Rename a scrape profile. The Default profile keeps its name; a renamed active profile stays active.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]

		active, err := config.RenameConfig(from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Renamed profile %q to %q\n", from, to)
		if active {
			fmt.Fprintf(out, "%q is still the active profile\n", to)
		}

		return nil
	},
}

func init() {
	configCmd.AddCommand(configRenameCmd)
}
