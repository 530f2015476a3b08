package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerDebugGated(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false)

	l.Debugf("hidden %d\n", 1)
	l.Infof("shown %s\n", "here")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown here")
	require.Contains(t, out, "level=INFO")
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, true).With("browser")

	l.Debugf("probe")
	l.Errorf("boom: %v", "x")

	out := buf.String()
	require.Contains(t, out, "component=browser")
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "level=ERROR")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Infof("nothing")
	l.Debugf("nothing")
	l.Errorf("nothing")
	require.Nil(t, l.With("x"))
}

func TestLoggerWithRun(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, false).WithRun("abc").With("capture").Infof("hi")

	require.Contains(t, buf.String(), "run=abc component=capture")
}
