package cmd

import (
	"fmt"
	"time"

	"github.com/brogergvhs/r6scrape/internal/run"

	"github.com/spf13/cobra"
)

var (
	buildFlags    pipelineFlags
	flagDownloads string
)

func init() {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the manifest, assets and docs from previously downloaded manifests, without a browser",
		RunE:  runBuild,
	}

	buildFlags.register(buildCmd.Flags())
	buildCmd.Flags().StringVar(&flagDownloads, "downloads", "", "directory holding the downloaded manifests (e.g. downloads/<version>)")
	_ = buildCmd.MarkFlagRequired("downloads")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if flagDownloads == "" {
		return fmt.Errorf("missing --downloads")
	}

	p, err := newPipeline(cmd, buildFlags.options(cmd), run.WithStrictAssets(buildFlags.strictAssets))
	if err != nil {
		return err
	}

	start := time.Now()
	sum, err := p.runner.BuildFromDir(cmd.Context(), flagDownloads, p.creds.ProfileID)
	if err != nil {
		p.pm.Close()
		return err
	}

	p.summary(cmd.OutOrStdout(), sum, start)
	return nil
}
