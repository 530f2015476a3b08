package browser

import (
	"sync"

	pw "github.com/playwright-community/playwright-go"

	"github.com/brogergvhs/r6scrape/internal/capture"
)

// NetworkObserver receives the network events of a page.
type NetworkObserver interface {
	ObserveRequest(capture.RequestInfo)
	ObserveResponse(capture.ResponseInfo)
}

func requestInfo(req pw.Request) capture.RequestInfo {
	return capture.RequestInfo{
		URL:          req.URL(),
		Method:       req.Method(),
		ResourceType: req.ResourceType(),
	}
}

// allHeaders includes the security headers (authorization, cookies) that
// Headers() leaves out.
func allHeaders(all func() (map[string]string, error), fallback func() map[string]string) map[string]string {
	if h, err := all(); err == nil {
		return h
	}
	return fallback()
}

func responseInfo(resp pw.Response) capture.ResponseInfo {
	req := resp.Request()

	return capture.ResponseInfo{
		Request:         requestInfo(req),
		RequestHeaders:  allHeaders(req.AllHeaders, req.Headers),
		ResponseHeaders: allHeaders(resp.AllHeaders, resp.Headers),
		JSON: func() (any, error) {
			var v any
			if err := resp.JSON(&v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// inflight tracks response handlers. Once closed it admits no new ones, so
// wait never races a late Add.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.wg.Add(1)
	return true
}

func (f *inflight) done() {
	f.wg.Done()
}

// closeAndWait stops admitting handlers and waits for the running ones.
func (f *inflight) closeAndWait() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.wg.Wait()
}

// run calls fn on its own goroutine unless f is closed.
func (f *inflight) run(fn func()) bool {
	if !f.start() {
		return false
	}
	go func() {
		defer f.done()
		fn()
	}()
	return true
}

// attach wires the page events to obs. Response handling needs protocol
// round trips, so it runs off the event goroutine and is tracked by pending.
// Events arriving after the session started closing are dropped.
func attach(page pw.Page, obs NetworkObserver, pending *inflight) {
	if obs == nil {
		return
	}

	page.OnRequest(func(req pw.Request) {
		if pending.start() {
			defer pending.done()
			obs.ObserveRequest(requestInfo(req))
		}
	})
	page.OnResponse(func(resp pw.Response) {
		pending.run(func() {
			obs.ObserveResponse(responseInfo(resp))
		})
	})
}
