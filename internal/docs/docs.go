// Package docs renders the manifest and the recorded API requests as
// markdown pages for the documentation site.
package docs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/r6scrape/internal/manifest"
	"github.com/brogergvhs/r6scrape/internal/util"
)

const (
	Notice     = "This page is automatically generated during the scraping process."
	AssetsPath = "/img/assets/"
)

type FrontMatter struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
}

type Page struct {
	FrontMatter
	Body string
}

func (p Page) FileName() string { return p.ID + ".md" }

func (p Page) Render() ([]byte, error) {
	fm, err := yaml.Marshal(p.FrontMatter)
	if err != nil {
		return nil, fmt.Errorf("front matter for %s: %w", p.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Body)
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// Order is the sidebar order of the generated pages.
var Order = []string{"operators", "seasons", "divisions", "ranks", "requests"}

func jsonBlock(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		b = []byte("null")
	}
	return "```json\n" + string(b) + "\n```"
}

func image(alt, path, title string) string {
	return fmt.Sprintf("![%s](%s%s %q)", alt, AssetsPath, path, title)
}

func page(id, title, label string, sections []string) Page {
	return Page{
		FrontMatter: FrontMatter{ID: id, Title: title, SidebarLabel: label},
		Body:        Notice + "\n" + strings.Join(sections, "\n\n"),
	}
}

func OperatorsPage(m *manifest.Manifest) Page {
	sections := make([]string, 0, len(m.AllOperators))
	for _, id := range m.AllOperators {
		op := m.Operators[id]
		sections = append(sections, strings.Join([]string{
			"## " + op.Name,
			jsonBlock(op),
			"#### Large",
			image(op.Name, op.Large, "large.png"),
			"#### Small",
			image(op.Name, op.Small, "small.png"),
			"#### Mask",
			image(op.Name+" mask", op.Mask, "mask.png"),
			"#### Icon",
			image(op.Name+" icon", op.Icon, "icon.png"),
		}, "\n"))
	}

	return page("operators", "Operators", "Operators", sections)
}

func SeasonsPage(m *manifest.Manifest) Page {
	sections := make([]string, 0, len(m.AllSeasons))
	for _, id := range m.AllSeasons {
		s := m.Seasons[id]
		sections = append(sections, strings.Join([]string{
			"## " + s.Name,
			jsonBlock(s),
			"#### Background",
			image(s.Name, s.Background, "background.jpg"),
		}, "\n"))
	}

	return page("seasons", "Seasons", "Seasons", sections)
}

var seasonRe = regexp.MustCompile(`^s([0-9]+)-`)

func seasonOf(id string) string {
	if m := seasonRe.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return ""
}

// groupBySeason prefixes an entry with a season heading whenever its
// season differs from the previous entry's.
func groupBySeason(ids []string, render func(id string) []string) []string {
	sections := make([]string, 0, len(ids))
	prev := ""
	for i, id := range ids {
		season := seasonOf(id)

		var lines []string
		if i == 0 || season != prev {
			lines = append(lines, "## Season "+season)
		}
		prev = season

		lines = append(lines, render(id)...)
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return sections
}

func DivisionsPage(m *manifest.Manifest) Page {
	sections := groupBySeason(m.AllDivisions, func(id string) []string {
		d := m.Divisions[id]
		return []string{"### " + d.Name, "### " + id, jsonBlock(d)}
	})

	return page("divisions", "Divisions", "Divisions", sections)
}

func RanksPage(m *manifest.Manifest) Page {
	sections := groupBySeason(m.AllRanks, func(id string) []string {
		r := m.Ranks[id]
		return []string{
			"### " + r.Name,
			"### " + id,
			jsonBlock(r),
			"#### Icon",
			image(r.Name, r.Icon, "icon.svg"),
		}
	})

	return page("ranks", "Ranks", "Ranks", sections)
}

// RequestsPage wraps an already rendered API report body.
func RequestsPage(body string) Page {
	return Page{
		FrontMatter: FrontMatter{ID: "requests", Title: "Sample API Requests", SidebarLabel: "Sample Requests"},
		Body:        body,
	}
}

// WriteAll writes every page plus the ascii request report into dir and
// returns the written markdown paths in sidebar order.
func WriteAll(dir string, m *manifest.Manifest, requestsMD, requestsASCII string) ([]string, error) {
	pages := []Page{
		OperatorsPage(m),
		SeasonsPage(m),
		DivisionsPage(m),
		RanksPage(m),
		RequestsPage(requestsMD),
	}

	paths := make([]string, 0, len(pages))
	for _, p := range pages {
		b, err := p.Render()
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, p.FileName())
		if err := util.WriteFile(path, b); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if err := util.WriteFile(filepath.Join(dir, "requests.txt"), []byte(requestsASCII)); err != nil {
		return nil, fmt.Errorf("write requests.txt: %w", err)
	}

	return paths, nil
}
