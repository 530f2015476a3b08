package cmd

import (
	"bytes"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "", "version")
	require.True(t, strings.HasPrefix(out, "r6scrape version: "), out)
}

func TestBuildVersion(t *testing.T) {
	stamped := &debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}
	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	require.Equal(t, "v1.2.0", buildVersion(stamped, true))
	require.Equal(t, "dev", buildVersion(devel, true))
	require.Equal(t, "dev", buildVersion(nil, false))

	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })
	require.Equal(t, "v9.9.9", buildVersion(stamped, true))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer

	require.True(t, confirm(strings.NewReader("Y\n"), &out, "Go?"))
	require.True(t, confirm(strings.NewReader("yes\n"), &out, "Go?"))
	require.False(t, confirm(strings.NewReader("\n"), &out, "Go?"))
	require.Equal(t, "Go? [y/N]: Go? [y/N]: Go? [y/N]: ", out.String())
}

func TestConfigLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	out := execute(t, "y\n", "config", "init")
	require.Contains(t, out, "This config is now active (label: Default).")
	require.FileExists(t, filepath.Join(dir, "r6scrape", "configs", "Default.yaml"))

	out = execute(t, "", "config", "add", "work")
	require.Contains(t, out, "Created new config:")

	execute(t, "", "config", "switch", "work")
	out = execute(t, "", "config", "rename", "work", "job")
	require.Contains(t, out, `Renamed profile "work" to "job"`)
	require.Contains(t, out, `"job" is still the active profile`)

	out = execute(t, "", "config", "list")
	require.Contains(t, out, "job")
	require.Contains(t, out, "yes")

	out = execute(t, "", "config", "remove", "--force", "job")
	require.Contains(t, out, "Fallback switched to: Default")
}
