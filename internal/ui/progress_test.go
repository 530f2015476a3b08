package ui

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalOrDiscard(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, io.Discard, TerminalOrDiscard(&buf))
}

func TestProgressHandleLifecycle(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManagerTo(&buf)

	h := pm.Register("assets", "files")
	h.SetTotal(2)
	h.Update(1, 2, 10)
	h.MarkDone()
	h.Update(2, 2, 20)
	pm.Close()

	require.EqualValues(t, 2, h.total)
	require.EqualValues(t, 10, h.bytes)
}

func TestNilProgressHandleIsSafe(t *testing.T) {
	var h *ProgressHandle
	h.SetTotal(3)
	h.Update(1, 3, 5)
	h.MarkDone()
}
