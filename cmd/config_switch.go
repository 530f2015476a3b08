package cmd

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/r6scrape/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Switch to a different configuration profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListConfigs()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no configs available")
			}

			items := make([]string, len(list))
			cursor := 0
			for i, c := range list {
				items[i] = c.Label
				if c.Active {
					items[i] += "  (active)"
					cursor = i
				}
			}

			prompt := promptui.Select{
				Label:     "Select config",
				Items:     items,
				CursorPos: cursor,
				Searcher: func(input string, index int) bool {
					return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
				},
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}

			label = list[idx].Label
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Switched to:", label)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
