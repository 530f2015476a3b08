package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrBusy = errors.New("another run holds the lock")

const lockFile = ".r6scrape.lock"

// lock takes an exclusive lock next to the downloads so two runs never
// write the same dist, docs and website trees.
func (r *Runner) lock() (unlock func(), err error) {
	if err := os.MkdirAll(r.cfg.DownloadsDir, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(r.cfg.DownloadsDir, lockFile)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			r.log.Debugf("unlock %s: %v", path, err)
		}
	}, nil
}
