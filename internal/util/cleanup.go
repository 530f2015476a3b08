package util

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// SetupInterruptHandler removes unfinished *_tmp folders under dirs when the
// process is interrupted, then exits.
func SetupInterruptHandler(dirs ...string) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		for _, d := range dirs {
			CleanupUnfinishedTempFolders(d)
		}
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()
}

func CleanupUnfinishedTempFolders(outputDir string) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() && strings.HasSuffix(name, "_tmp") {
			full := filepath.Join(outputDir, name)

			if err := os.RemoveAll(full); err != nil {
				fmt.Printf("Error cleaning up %s: %v\n", full, err)
			} else {
				fmt.Printf("Removed %s\n", full)
			}
		}
	}
}
