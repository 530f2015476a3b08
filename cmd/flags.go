package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brogergvhs/r6scrape/internal/config"
	"github.com/brogergvhs/r6scrape/internal/run"
	"github.com/brogergvhs/r6scrape/internal/ui"
	"github.com/brogergvhs/r6scrape/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// pipelineFlags are shared by scrape, build and docs.
type pipelineFlags struct {
	searchTerm   string
	logDir       string
	downloadsDir string
	distDir      string
	docsDir      string
	websiteDir   string
	workers      int
	timeout      time.Duration
	userAgent    string
	envFile      string
	strictAssets bool
}

func (p *pipelineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.searchTerm, "search-term", "", "term typed into the stats search box")
	fs.StringVar(&p.logDir, "log-dir", "", "screenshots and request logs")
	fs.StringVar(&p.downloadsDir, "downloads-dir", "", "raw manifest downloads, one folder per version")
	fs.StringVar(&p.distDir, "dist", "", "manifest and assets output")
	fs.StringVar(&p.docsDir, "docs", "", "docs root, pages go to <docs>/auto")
	fs.StringVar(&p.websiteDir, "website", "", "docusaurus website directory")
	fs.IntVar(&p.workers, "workers", 50, "parallel asset downloads")
	fs.DurationVar(&p.timeout, "manifest-timeout", 10*time.Second, "timeout per manifest download")
	fs.StringVar(&p.userAgent, "user-agent", "", "override User-Agent")
	fs.StringVar(&p.envFile, "env-file", "", "dotenv file with UBI_EMAIL, UBI_PASSWORD and UBI_ID")
	fs.BoolVar(&p.strictAssets, "strict-assets", false, "fail when an asset cannot be downloaded")
}

func (p *pipelineFlags) options(cmd *cobra.Command) config.Options {
	o := config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		SearchTerm:   p.searchTerm,
		LogDir:       p.logDir,
		DownloadsDir: p.downloadsDir,
		DistDir:      p.distDir,
		DocsDir:      p.docsDir,
		WebsiteDir:   p.websiteDir,
		UserAgent:    p.userAgent,
		EnvFile:      p.envFile,
	}

	if cmd.Flags().Changed("workers") {
		o.DownloadWorkers = p.workers
	}
	if cmd.Flags().Changed("manifest-timeout") {
		o.ManifestTimeout = p.timeout
	}

	return o
}

type pipeline struct {
	cfg    *config.Config
	log    *ui.Logger
	pm     *ui.MPBProgressManager
	runner *run.Runner
	creds  config.Credentials
}

func newPipeline(cmd *cobra.Command, o config.Options, extra ...run.Option) (*pipeline, error) {
	cfg, usedPath, err := config.LoadMerged(o)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", usedPath)
	if cfg.Debug {
		fmt.Fprintln(out, "Full config:")
		cfg.Print(out)
		fmt.Fprintln(out)
	}

	creds, err := config.LoadCredentials(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		cfg:   cfg,
		log:   ui.NewLogger(cfg.Debug),
		pm:    ui.NewProgressManagerTo(ui.TerminalOrDiscard(out)),
		creds: creds,
	}

	opts := append([]run.Option{run.WithProgress(p.pm)}, extra...)
	if p.runner, err = run.New(cfg, p.log, opts...); err != nil {
		return nil, err
	}

	util.SetupInterruptHandler(cfg.DownloadsDir)

	return p, nil
}

func (p *pipeline) summary(w io.Writer, sum *run.Summary, start time.Time) {
	p.pm.Close()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	if sum.RunID != "" {
		fmt.Fprintf(w, "Run:       %s\n", sum.RunID)
	}
	if sum.Version != "" {
		fmt.Fprintf(w, "Version:   %s\n", sum.Version)
	}
	fmt.Fprintf(w, "Manifests: %d\n", p.runner.Stats.TotalManifests.Load())
	fmt.Fprintf(w, "Operators: %d\n", sum.Operators)
	fmt.Fprintf(w, "Seasons:   %d\n", sum.Seasons)
	fmt.Fprintf(w, "Ranks:     %d\n", sum.Ranks)
	fmt.Fprintf(w, "Assets:    %d (%d failed)\n", p.runner.Stats.TotalAssets.Load(), p.runner.Stats.FailedAssets.Load())
	total, elapsed := p.runner.Stats.TotalBytes.Load(), time.Since(start)
	if rate := util.Rate(total, elapsed); rate != "" {
		fmt.Fprintf(w, "Data:      %s (%s)\n", util.Human(total), rate)
	} else {
		fmt.Fprintf(w, "Data:      %s\n", util.Human(total))
	}
	fmt.Fprintf(w, "Requests:  %d\n", sum.Requests)
	if len(sum.MissingAssets) > 0 {
		fmt.Fprintf(w, "Missing page images: %d\n", len(sum.MissingAssets))
	}
	fmt.Fprintf(w, "Time:      %s\n", elapsed.Round(time.Second))
	fmt.Fprintln(w, "\nAll done.")
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	resp, _ := bufio.NewReader(in).ReadString('\n')
	resp = strings.TrimSpace(strings.ToLower(resp))

	return resp == "y" || resp == "yes"
}
