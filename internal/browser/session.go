// Package browser drives a headless Chromium through the site's login flow
// while the network hooks record manifests and API calls.
package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/brogergvhs/r6scrape/internal/pagescrape"
	"github.com/brogergvhs/r6scrape/internal/ui"
)

type Options struct {
	StartURL          string
	LoginFramePrefix  string
	LogDir            string
	UserAgent         string
	Headless          bool
	NavigationTimeout time.Duration
	// WaitTimeout bounds each in-page WaitFor. Zero uses NavigationTimeout.
	WaitTimeout time.Duration
	// Install downloads the driver and Chromium before launching.
	Install  bool
	Observer NetworkObserver
	Log      *ui.Logger
}

type Session struct {
	opts    Options
	log     *ui.Logger
	pw      *pw.Playwright
	browser pw.Browser
	context pw.BrowserContext
	page    pw.Page
	pending inflight
}

// Result is what a signed-in walk through the site yields besides the
// recorded network traffic.
type Result struct {
	Version string
	Pages   []pagescrape.Page
}

func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.WaitTimeout == 0 {
		opts.WaitTimeout = opts.NavigationTimeout
	}
	s := &Session{opts: opts, log: opts.Log.With("browser")}

	if opts.Install {
		if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var err error
	if s.pw, err = pw.Run(); err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	s.browser, err = s.pw.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	ctxOpts := pw.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = pw.String(opts.UserAgent)
	}
	if s.context, err = s.browser.NewContext(ctxOpts); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("browser context: %w", err)
	}

	if s.page, err = s.context.NewPage(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	s.page.SetDefaultNavigationTimeout(ms(opts.NavigationTimeout))

	attach(s.page, opts.Observer, &s.pending)

	return s, nil
}

// Close drops further network events, waits for in-flight response
// handlers, then tears everything down.
func (s *Session) Close() error {
	s.pending.closeAndWait()

	var errs []error
	if s.context != nil {
		errs = append(errs, s.context.Close())
	}
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.pw != nil {
		errs = append(errs, s.pw.Stop())
	}

	return errors.Join(errs...)
}

func ms(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}

func (s *Session) screenshot(name string) {
	path := filepath.Join(s.opts.LogDir, name)
	if _, err := s.page.Screenshot(pw.PageScreenshotOptions{
		Path:     pw.String(path),
		FullPage: pw.Bool(true),
	}); err != nil {
		s.log.Debugf("screenshot %s: %v", name, err)
	}
}

// scrape classifies the current HTML of the page or frame.
func (s *Session) scrape(content func() (string, error), url string) (pagescrape.Page, error) {
	html, err := content()
	if err != nil {
		return pagescrape.Page{}, err
	}

	doc, err := pagescrape.ParseHTML(html)
	if err != nil {
		return pagescrape.Page{}, err
	}

	p := pagescrape.Extract(doc, url)
	s.log.Debugf("page %s classified as %s", url, p.Layout)
	return p, nil
}

func evalBool(eval func(string, ...any) (any, error), expr string) Probe {
	return func(context.Context) (bool, error) {
		v, err := eval(expr)
		if err != nil {
			return false, err
		}
		b, _ := v.(bool)
		return b, nil
	}
}
