package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/r6scrape/internal/config"

	"github.com/spf13/cobra"
)

var flagYes bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		defaultPath, err := config.ConfigPathByLabel("Default")
		if err == nil {
			fmt.Fprintln(out, "Configuration already exists at:")
			fmt.Fprintln(out, "  ", defaultPath)
			fmt.Fprintln(out, "Use `r6scrape config reset` to recreate it.")
			return nil
		}

		fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Credentials are read from UBI_EMAIL, UBI_PASSWORD and UBI_ID (or the env_file), never from this file.")
		fmt.Fprintln(out)

		if !flagYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Create Default config in %s?", config.ConfigsDir())) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		path, err := config.InitDefaultConfig()
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintln(out, "Config created at:", path)
		fmt.Fprintln(out, "This config is now active (label: Default).")

		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
