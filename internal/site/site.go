// Package site feeds the generated assets and pages to the docusaurus
// website.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/r6scrape/internal/docs"
	"github.com/brogergvhs/r6scrape/internal/util"
)

const (
	autoDir      = "auto"
	sidebarGroup = "Generated"
)

// Publish replaces website/static/img with a copy of distDir.
func Publish(distDir, websiteDir string) error {
	dst := filepath.Join(websiteDir, "static", "img")
	if err := util.ResetDir(dst); err != nil {
		return err
	}

	if err := util.CopyDir(distDir, dst); err != nil {
		return fmt.Errorf("publish %s: %w", distDir, err)
	}

	return nil
}

// ReadFrontMatter decodes the leading YAML block of a markdown page.
// A page without one yields a zero value.
func ReadFrontMatter(b []byte) (docs.FrontMatter, error) {
	var fm docs.FrontMatter

	rest, ok := bytes.CutPrefix(b, []byte("---\n"))
	if !ok {
		return fm, nil
	}

	block, _, ok := bytes.Cut(rest, []byte("\n---"))
	if !ok {
		return fm, nil
	}

	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, fmt.Errorf("front matter: %w", err)
	}

	return fm, nil
}

type Sidebars struct {
	Docs map[string][]string `json:"docs"`
}

// Sidebar lists the generated page ids in display order.
func Sidebar(docsDir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(docsDir, autoDir, "*.md"))
	if err != nil {
		return nil, err
	}

	rank := map[string]int{}
	for i, id := range docs.Order {
		rank[id] = i
	}

	var ids []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}

		fm, err := ReadFrontMatter(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}

		id := fm.ID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(f), ".md")
		}
		ids = append(ids, id)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		ri, iok := rank[ids[i]]
		rj, jok := rank[ids[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return ids[i] < ids[j]
		}
	})

	for i := range ids {
		ids[i] = autoDir + "/" + ids[i]
	}

	return ids, nil
}

// WriteSidebars writes website/sidebars.json for the generated pages.
func WriteSidebars(docsDir, websiteDir string) error {
	ids, err := Sidebar(docsDir)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(Sidebars{Docs: map[string][]string{sidebarGroup: ids}}, "", "  ")
	if err != nil {
		return err
	}

	return util.WriteFile(filepath.Join(websiteDir, "sidebars.json"), append(b, '\n'))
}
