package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/brogergvhs/r6scrape/internal/manifest"
	"github.com/brogergvhs/r6scrape/internal/ui"
)

const assetAccept = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"

type Result struct {
	Files  []string
	Bytes  int64
	Failed []string
}

type poolState struct {
	mu    sync.Mutex
	done  int
	total int
	bytes int64
}

// DownloadAssets fetches every asset from baseURL into destDir using at most
// maxParallel concurrent requests. A failed asset is reported in
// Result.Failed; it only fails the call when skipBroken is off.
func (d *Downloader) DownloadAssets(
	ctx context.Context,
	assets []manifest.Asset,
	baseURL string,
	destDir string,
	maxParallel int,
	ph *ui.ProgressHandle,
) (Result, error) {
	total := len(assets)
	if maxParallel < 1 {
		maxParallel = 1
	}
	if maxParallel > total && total > 0 {
		maxParallel = total
	}

	st := &poolState{total: total}
	ph.Update(0, total, 0)

	var res Result
	var resMu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			a := assets[i]
			url := joinURL(baseURL, a.URL)
			path := filepath.Join(destDir, filepath.FromSlash(a.Local))

			var last int64
			progress := func(done int64) {
				delta := done - last
				if delta <= 0 {
					return
				}

				last = done
				st.mu.Lock()
				st.bytes += delta
				ph.Update(st.done, st.total, st.bytes)
				st.mu.Unlock()
			}

			_, err := d.downloadWithRetry(ctx, url, path, assetAccept, progress)

			resMu.Lock()
			if err != nil {
				d.log.Errorf("Unable to download %s: %v", url, err)
				res.Failed = append(res.Failed, a.Local)
			} else {
				res.Files = append(res.Files, path)
			}
			resMu.Unlock()

			st.mu.Lock()
			st.done++
			if err == nil {
				d.log.Debugf("Finished downloading %s. [#%d]", url, st.done)
			}
			ph.Update(st.done, st.total, st.bytes)
			st.mu.Unlock()
		}
	}

	wg.Add(maxParallel)
	for w := 0; w < maxParallel; w++ {
		go worker()
	}

	var cancelled error
feed:
	for i := range assets {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	ph.MarkDone()
	res.Bytes = st.bytes

	if cancelled != nil {
		return res, cancelled
	}

	if len(res.Failed) > 0 && !d.skipBroken {
		return res, fmt.Errorf("failed %d/%d assets", len(res.Failed), total)
	}

	return res, nil
}
