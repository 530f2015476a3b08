package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/r6scrape/internal/manifest"
)

func sampleManifest() *manifest.Manifest {
	return &manifest.Manifest{
		AllOperators: []string{"ash"},
		Operators: map[string]manifest.Operator{
			"ash": {Name: "Ash", Category: "atk", Large: "ash/large.png", Small: "ash/small.png", Mask: "ash/mask.png", Icon: "ash/icon.png"},
		},
		AllSeasons:   []string{"s1"},
		Seasons:      map[string]manifest.Season{"s1": {Name: "Black Ice", Background: "s1/background.jpg"}},
		AllDivisions: []string{"s1-d1", "s1-d2", "s2-d1"},
		Divisions: map[string]manifest.Division{
			"s1-d1": {Name: "Copper"},
			"s1-d2": {Name: "Bronze"},
			"s2-d1": {Name: "Copper"},
		},
		AllRanks: []string{"s1-r1", "s3-r1"},
		Ranks: map[string]manifest.Rank{
			"s1-r1": {Name: "Copper IV", Icon: "s1/r1.svg"},
			"s3-r1": {Name: "Copper V", Icon: "s3/r1.svg"},
		},
	}
}

func TestPageRenderFrontMatter(t *testing.T) {
	b, err := RequestsPage("# API Format").Render()
	require.NoError(t, err)

	want := "---\nid: requests\ntitle: Sample API Requests\nsidebar_label: Sample Requests\n---\n\n# API Format\n"
	require.Equal(t, want, string(b))
}

func TestOperatorsPage(t *testing.T) {
	p := OperatorsPage(sampleManifest())

	require.Equal(t, "operators.md", p.FileName())
	require.True(t, strings.HasPrefix(p.Body, Notice))
	require.Contains(t, p.Body, "## Ash\n```json\n{\n  \"category\": \"atk\"")
	require.Contains(t, p.Body, `![Ash](/img/assets/ash/large.png "large.png")`)
	require.Contains(t, p.Body, `![Ash mask](/img/assets/ash/mask.png "mask.png")`)
}

func TestDivisionsPageSeasonHeadings(t *testing.T) {
	body := DivisionsPage(sampleManifest()).Body

	require.Equal(t, 1, strings.Count(body, "## Season 1\n"))
	require.Equal(t, 1, strings.Count(body, "## Season 2\n"))
	require.Less(t, strings.Index(body, "### s1-d2"), strings.Index(body, "## Season 2"))
}

func TestRanksPage(t *testing.T) {
	body := RanksPage(sampleManifest()).Body

	require.Contains(t, body, "## Season 3\n### Copper V\n### s3-r1")
	require.Contains(t, body, `![Copper IV](/img/assets/s1/r1.svg "icon.svg")`)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()

	paths, err := WriteAll(dir, sampleManifest(), "# API Format", "API Format")
	require.NoError(t, err)
	require.Len(t, paths, len(Order))

	for i, id := range Order {
		require.Equal(t, filepath.Join(dir, id+".md"), paths[i])
	}

	txt, err := os.ReadFile(filepath.Join(dir, "requests.txt"))
	require.NoError(t, err)
	require.Equal(t, "API Format", string(txt))
}

func TestCheckAssets(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ash"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ash", "large.png"), []byte("x"), 0o644))

	b, err := OperatorsPage(sampleManifest()).Render()
	require.NoError(t, err)

	missing := CheckAssets(b, root)
	require.Equal(t, []string{
		"/img/assets/ash/small.png",
		"/img/assets/ash/mask.png",
		"/img/assets/ash/icon.png",
	}, missing)
}

func TestCheckAssetsIgnoresOtherImages(t *testing.T) {
	md := []byte("![logo](/img/logo.png)\n\n```\n![x](/img/assets/none.png)\n```\n")
	require.Empty(t, CheckAssets(md, t.TempDir()))
}
