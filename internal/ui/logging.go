package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	Debug bool
	log   *slog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stdout, debug)
}

// NewLoggerTo writes text-formatted records to w.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	return &Logger{Debug: debug, log: slog.New(h)}
}

// Nop discards everything.
func Nop() *Logger {
	return NewLoggerTo(io.Discard, false)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.Debug {
		return
	}
	l.log.Debug(msg(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.log.Info(msg(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.log.Error(msg(format, args...))
}

// With returns a logger that tags every record with the given component.
func (l *Logger) With(component string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Debug: l.Debug, log: l.log.With("component", component)}
}

// WithRun tags every record with a run id.
func (l *Logger) WithRun(id string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Debug: l.Debug, log: l.log.With("run", id)}
}

func msg(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
