package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brogergvhs/r6scrape/internal/capture"
)

var ErrMissingSource = errors.New("missing source manifest")

// Sources maps a manifest kind ("operators", "locale", ...) to its decoded
// JSON. Objects are *Object, so key order survives, and numbers are kept as
// json.Number.
type Sources map[string]any

type logger interface {
	Debugf(string, ...any)
}

// LoadSources reads the files DownloadManifests stored for urls. Files whose
// name carries no manifest kind are skipped.
func LoadSources(dir string, urls []string, log logger) (Sources, error) {
	names := make([]string, 0, len(urls))
	for _, u := range urls {
		names = append(names, capture.CleanURL(u))
	}

	return loadFiles(dir, names, log)
}

// LoadDir reads every .json file in dir, in lexical order.
func LoadDir(dir string, log logger) (Sources, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sources dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return loadFiles(dir, names, log)
}

func loadFiles(dir string, names []string, log logger) (Sources, error) {
	out := Sources{}
	for _, name := range names {
		kind, err := capture.ManifestName(name)
		if err != nil {
			if log != nil {
				log.Debugf("Skipping %s: %v", name, err)
			}
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s manifest: %w", kind, err)
		}

		v, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("parse %s manifest %s: %w", kind, name, err)
		}

		out[kind] = v
	}

	return out, nil
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	return decodeValue(dec)
}
