package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/brogergvhs/r6scrape/internal/config"

	"github.com/spf13/cobra"
)

var flagAddFrom string

var configAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Create a new config, from defaults or from an existing YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var label string
		if len(args) == 1 {
			label = args[0]
		} else {
			fmt.Fprint(out, "Enter label for new config: ")
			label, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		}
		label = strings.TrimSpace(label)

		if flagAddFrom != "" {
			if err := config.AddConfig(label, flagAddFrom); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %s as config %q\n", flagAddFrom, label)
			return nil
		}

		path, err := config.CreateEmptyConfig(label)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Created new config: %s\n", path)
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&flagAddFrom, "from", "", "import an existing YAML config file")
	configCmd.AddCommand(configAddCmd)
}
