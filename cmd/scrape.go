package cmd

import (
	"context"
	"time"

	"github.com/brogergvhs/r6scrape/internal/run"

	"github.com/spf13/cobra"
)

var (
	scrapeFlags     pipelineFlags
	flagAttempts    int
	flagHeaded      bool
	flagStartURL    string
	flagNavTimeout  time.Duration
	flagInstallDeps bool
)

func init() {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Sign in, record manifests and API calls, then build the manifest, assets and docs. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runScrape,
	}

	scrapeFlags.register(scrapeCmd.Flags())
	scrapeCmd.Flags().IntVar(&flagAttempts, "attempts", 3, "whole-run attempts before giving up")
	scrapeCmd.Flags().BoolVar(&flagHeaded, "headed", false, "show the browser window")
	scrapeCmd.Flags().StringVar(&flagStartURL, "start-url", "", "landing page to start from")
	scrapeCmd.Flags().DurationVar(&flagNavTimeout, "navigation-timeout", 100*time.Second, "timeout for page navigations")
	scrapeCmd.Flags().BoolVar(&flagInstallDeps, "install-browsers", false, "install the playwright driver and chromium first")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	o := scrapeFlags.options(cmd)
	o.Headed = flagHeaded
	o.StartURL = flagStartURL
	if cmd.Flags().Changed("attempts") {
		o.Attempts = flagAttempts
	}
	if cmd.Flags().Changed("navigation-timeout") {
		o.NavigationTimeout = flagNavTimeout
	}

	p, err := newPipeline(cmd, o,
		run.WithBrowserInstall(flagInstallDeps),
		run.WithStrictAssets(scrapeFlags.strictAssets),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	var sum *run.Summary

	err = run.WithRetry(cmd.Context(), p.log, p.cfg.Attempts, func(ctx context.Context) error {
		var err error
		sum, err = p.runner.Scrape(ctx, p.creds)
		return err
	})
	if err != nil {
		p.pm.Close()
		return err
	}

	p.summary(cmd.OutOrStdout(), sum, start)
	return nil
}
