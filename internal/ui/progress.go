package ui

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/r6scrape/internal/util"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type MPBProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager() *MPBProgressManager {
	return NewProgressManagerTo(os.Stdout)
}

func NewProgressManagerTo(w io.Writer) *MPBProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &MPBProgressManager{p: p}
}

// TerminalOrDiscard returns w when it is a terminal and io.Discard
// otherwise, so redirected output carries no bar redraws.
func TerminalOrDiscard(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return w
		}
	}
	return io.Discard
}

func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

// Register adds a bar; unit names what is being counted ("files", "manifests").
func (pm *MPBProgressManager) Register(prefix, unit string) *ProgressHandle {
	h := &ProgressHandle{
		pm:     pm,
		prefix: prefix,
		unit:   unit,
	}
	h.initBar()
	return h
}

// ProgressHandle methods are no-ops on a nil handle.
type ProgressHandle struct {
	pm     *MPBProgressManager
	prefix string
	unit   string
	bar    *mpb.Bar

	total int64
	bytes int64

	start   time.Time
	elapsed atomic.Int64

	final atomic.Bool
}

func (h *ProgressHandle) initBar() {
	h.start = time.Now()

	h.bar = h.pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d "+h.unit, decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + util.Human(atomic.LoadInt64(&h.bytes))
			}),

			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
		),
	)
}

func (h *ProgressHandle) SetTotal(total int) {
	if h == nil || h.final.Load() {
		return
	}

	atomic.StoreInt64(&h.total, int64(total))
	h.bar.SetTotal(int64(total), false)
}

func (h *ProgressHandle) Update(done, total int, bytes int64) {
	if h == nil || h.final.Load() {
		return
	}

	if total > 0 {
		atomic.StoreInt64(&h.total, int64(total))
		h.bar.SetTotal(int64(total), false)
	}

	atomic.StoreInt64(&h.bytes, bytes)
	h.bar.SetCurrent(int64(done))
}

func (h *ProgressHandle) MarkDone() {
	if h == nil || h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	total := atomic.LoadInt64(&h.total)
	h.bar.SetCurrent(total)
	h.bar.SetTotal(total, true)
}
