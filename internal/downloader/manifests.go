package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/brogergvhs/r6scrape/internal/capture"
	"github.com/brogergvhs/r6scrape/internal/ui"

	"golang.org/x/sync/errgroup"
)

// DownloadManifests stores each source manifest under destDir using its
// cleaned URL as the file name. Any failure fails the whole call.
func (d *Downloader) DownloadManifests(
	ctx context.Context,
	urls []string,
	destDir string,
	timeout time.Duration,
	ph *ui.ProgressHandle,
) ([]string, error) {
	ph.SetTotal(len(urls))

	paths := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)

	var done progressCounter
	for i, u := range urls {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			path := filepath.Join(destDir, capture.CleanURL(u))
			n, err := d.downloadWithRetry(fctx, u, path, "application/json,*/*;q=0.8", nil)
			if err != nil {
				if fctx.Err() == context.DeadlineExceeded {
					return fmt.Errorf("download %s timed out after %s", u, timeout)
				}
				return fmt.Errorf("download %s: %w", u, err)
			}

			d.log.Debugf("Finished downloading %s.", u)
			paths[i] = path
			c, b := done.add(n)
			ph.Update(c, len(urls), b)
			return nil
		})
	}

	err := g.Wait()
	ph.MarkDone()
	if err != nil {
		return nil, err
	}

	return paths, nil
}
