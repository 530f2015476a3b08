package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set with -ldflags "-X github.com/brogergvhs/r6scrape/cmd.Version=...".
var Version = "dev"

const playwrightModule = "github.com/playwright-community/playwright-go"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the r6scrape version and the browser driver it was built with",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		info, ok := debug.ReadBuildInfo()

		fmt.Fprintln(out, "r6scrape version:", buildVersion(info, ok))
		if !ok {
			return
		}
		fmt.Fprintln(out, "go:", info.GoVersion)
		for _, dep := range info.Deps {
			if dep.Path == playwrightModule {
				fmt.Fprintln(out, "playwright-go:", dep.Version)
			}
		}
	},
}

// buildVersion prefers the ldflags value, then the version go install stamped.
func buildVersion(info *debug.BuildInfo, ok bool) string {
	if Version != "dev" || !ok {
		return Version
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return Version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
