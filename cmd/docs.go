package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var docsFlags pipelineFlags

func init() {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Re-render the docs pages and website sidebar from dist/manifest.json",
		RunE:  runDocs,
	}

	docsFlags.register(docsCmd.Flags())
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline(cmd, docsFlags.options(cmd))
	if err != nil {
		return err
	}

	start := time.Now()
	sum, err := p.runner.Docs(p.creds.ProfileID)
	if err != nil {
		p.pm.Close()
		return err
	}

	p.summary(cmd.OutOrStdout(), sum, start)
	return nil
}
