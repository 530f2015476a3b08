package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrWaitTimeout = errors.New("condition not met before deadline")

const (
	firstDelay = time.Millisecond
	maxDelay   = time.Second
)

// Probe reports whether a page condition holds.
type Probe func(ctx context.Context) (bool, error)

// WaitFor polls probe until it returns true. The delay between polls starts
// at 1ms and doubles, capped at one second. A probe error counts as "not
// yet" since evaluation fails while the page is navigating; the last one is
// reported on timeout.
func WaitFor(ctx context.Context, probe Probe, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	delay := firstDelay

	var lastErr error
	for {
		ok, err := probe(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %v", ErrWaitTimeout, maxWait, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrWaitTimeout, maxWait)
		}

		if err := sleep(ctx, min(delay, remaining)); err != nil {
			return err
		}
		delay = min(delay*2, maxDelay)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
