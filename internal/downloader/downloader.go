package downloader

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/r6scrape/internal/ui"
)

type Downloader struct {
	client     *http.Client
	log        *ui.Logger
	skipBroken bool
	attempts   int
	backoff    time.Duration
	timeout    time.Duration
}

func New(c *http.Client, log *ui.Logger, skipBroken bool) *Downloader {
	return &Downloader{
		client:     c,
		log:        log,
		skipBroken: skipBroken,
		attempts:   3,
		backoff:    time.Second,
		timeout:    30 * time.Second,
	}
}

// WithRetry overrides the per-file attempt count and linear backoff step.
func (d *Downloader) WithRetry(attempts int, backoff time.Duration) *Downloader {
	if attempts > 0 {
		d.attempts = attempts
	}
	d.backoff = backoff
	return d
}

func (d *Downloader) downloadWithRetry(
	ctx context.Context,
	url string,
	output string,
	accept string,
	progress func(done int64),
) (int64, error) {
	var err error
	var n int64
	for attempt := 1; attempt <= d.attempts; attempt++ {
		n, err = d.download(ctx, url, output, accept, progress)
		if err == nil {
			return n, nil
		}

		if attempt == d.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * d.backoff):
		}
	}

	return 0, err
}

func (d *Downloader) download(
	ctx context.Context,
	u, output, accept string,
	progress func(done int64),
) (written int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); mt == "text/html" {
			return 0, fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return 0, err
	}

	f, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	written, err = copyWithProgress(f, resp.Body, progress)
	if err != nil {
		return written, err
	}

	if progress != nil && resp.ContentLength > 0 && written < resp.ContentLength {
		progress(resp.ContentLength)
	}

	return written, nil
}

func joinURL(base, rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}
