// Package run wires the scraping pipeline together: browser session,
// manifest download, assembly, asset download, docs and site output.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/r6scrape/internal/browser"
	"github.com/brogergvhs/r6scrape/internal/config"
	"github.com/brogergvhs/r6scrape/internal/downloader"
	"github.com/brogergvhs/r6scrape/internal/ui"
	"github.com/brogergvhs/r6scrape/internal/util"
)

var ErrMissingCredentials = errors.New("missing credentials")

const unknownVersion = "unknown"

// Scraper is a signed-in browser walk. *browser.Session implements it.
type Scraper interface {
	Run(ctx context.Context, creds config.Credentials, searchTerm string) (browser.Result, error)
	Close() error
}

type LaunchFunc func(ctx context.Context, opts browser.Options) (Scraper, error)

type Runner struct {
	cfg      *config.Config
	log      *ui.Logger
	client   *http.Client
	dl       *downloader.Downloader
	progress *ui.MPBProgressManager
	launch   LaunchFunc
	install  bool
	strict   bool

	Stats ui.Stats
}

type Option func(*Runner)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithStrictAssets fails the run when any asset cannot be downloaded.
func WithStrictAssets(v bool) Option {
	return func(r *Runner) { r.strict = v }
}

func WithProgress(pm *ui.MPBProgressManager) Option {
	return func(r *Runner) { r.progress = pm }
}

func WithLauncher(f LaunchFunc) Option {
	return func(r *Runner) { r.launch = f }
}

// WithBrowserInstall installs the playwright driver before launching.
func WithBrowserInstall(v bool) Option {
	return func(r *Runner) { r.install = v }
}

func New(cfg *config.Config, log *ui.Logger, opts ...Option) (*Runner, error) {
	r := &Runner{cfg: cfg, log: log}
	for _, o := range opts {
		o(r)
	}

	if r.client == nil {
		client, err := util.NewHTTPClient(util.HTTPClientOptions{
			Timeout:          60 * time.Second,
			UserAgent:        util.PickUserAgent(cfg.UserAgent),
			CloudflareBypass: true,
			DebugLogger:      log,
		})
		if err != nil {
			return nil, fmt.Errorf("http client: %w", err)
		}
		r.client = client
	}
	r.dl = downloader.New(r.client, log.With("download"), !r.strict)

	if r.launch == nil {
		r.launch = func(ctx context.Context, o browser.Options) (Scraper, error) {
			return browser.Launch(ctx, o)
		}
	}

	return r, nil
}

func (r *Runner) bar(prefix, unit string) *ui.ProgressHandle {
	if r.progress == nil {
		return nil
	}
	return r.progress.Register(prefix, unit)
}

func (r *Runner) docsAutoDir() string {
	return filepath.Join(r.cfg.DocsDir, "auto")
}

// notRetryable reports failures another attempt cannot fix.
func notRetryable(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, context.Canceled)
}

// WithRetry runs fn up to attempts times, stopping at the first success.
func WithRetry(ctx context.Context, log *ui.Logger, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if notRetryable(err) || ctx.Err() != nil {
			return err
		}

		log.Errorf("Attempt %d/%d failed: %v", i, attempts, err)
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

func checkCredentials(creds config.Credentials) error {
	if missing := creds.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: set %s in the environment or env file", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}
