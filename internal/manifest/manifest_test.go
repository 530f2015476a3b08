package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/r6scrape/internal/capture"
	"github.com/brogergvhs/r6scrape/internal/pagescrape"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var fixtureURLs = map[string]string{
	"operators": "https://game-rainbow6.ubi.com/assets/data/operators.3a2655c8.json",
	"seasons":   "https://game-rainbow6.ubi.com/assets/data/seasons.6f1d7e8a.json",
	"ranks":     "https://game-rainbow6.ubi.com/assets/data/ranks.0c93f4b1.json",
	"locale":    "https://game-rainbow6.ubi.com/assets/locales/locale.en-us.13ca1f.json",
}

// stageFixtures copies testdata into a temp dir under the names the
// manifest downloader would have used.
func stageFixtures(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()

	var urls []string
	for kind, u := range fixtureURLs {
		b, err := os.ReadFile(filepath.Join("testdata", kind+".json"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, capture.CleanURL(u)), b, 0644))
		urls = append(urls, u)
	}

	return dir, urls
}

func loadFixture(t *testing.T) Sources {
	t.Helper()
	dir, urls := stageFixtures(t)
	src, err := LoadSources(dir, urls, nil)
	require.NoError(t, err)
	return src
}

func TestLoadSourcesKinds(t *testing.T) {
	src := loadFixture(t)
	require.Len(t, src, 4)
	for kind := range fixtureURLs {
		require.Contains(t, src, kind)
	}
}

func TestLoadDirSkipsUnknownNames(t *testing.T) {
	dir, _ := stageFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{}`), 0644))

	src, err := LoadDir(dir, nil)
	require.NoError(t, err)
	require.Len(t, src, 4)
}

func TestLoadSourcesBadJSON(t *testing.T) {
	dir := t.TempDir()
	u := fixtureURLs["ranks"]
	require.NoError(t, os.WriteFile(filepath.Join(dir, capture.CleanURL(u)), []byte(`{"seasons":`), 0644))

	_, err := LoadSources(dir, []string{u}, nil)
	require.ErrorContains(t, err, "parse ranks manifest")
}

func TestLocalize(t *testing.T) {
	src := Sources{
		"locale": map[string]any{"7": "Seven", "8": "Eight"},
		"things": map[string]any{
			"a":    map[string]any{"oasisId": json.Number("7")},
			"list": []any{map[string]any{"oasisId": "8"}, "plain", nil},
			"zero": map[string]any{"oasisId": json.Number("0"), "keep": true},
			"gone": map[string]any{"oasisId": json.Number("9")},
			"deep": map[string]any{"x": map[string]any{"y": map[string]any{"oasisId": 7.0}}},
		},
	}

	got := Localize(src)
	require.NotContains(t, got, "locale")

	want := map[string]any{
		"a":    "Seven",
		"list": []any{"Eight", "plain", nil},
		"zero": map[string]any{"oasisId": json.Number("0"), "keep": true},
		"gone": nil,
		"deep": map[string]any{"x": map[string]any{"y": "Seven"}},
	}
	if diff := cmp.Diff(want, got["things"]); diff != "" {
		t.Fatalf("localized mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizeWithoutLocale(t *testing.T) {
	got := Localize(Sources{"x": map[string]any{"n": map[string]any{"oasisId": "1"}}})
	require.Equal(t, map[string]any{"n": nil}, got["x"])
}

func TestDisplayPosition(t *testing.T) {
	cases := []struct {
		index string
		pos   uint64
		ok    bool
	}{
		{"2:1", 0x12, true},
		{"1:1", 0x11, true},
		{"3:A", 0xA3, true},
		{"10", 0x10, true},
		{"2:1x", 0x1, true},
		{"zz", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		pos, ok := DisplayPosition(c.index)
		require.Equal(t, c.ok, ok, c.index)
		if c.ok {
			require.Equal(t, c.pos, pos, c.index)
		}
	}
}

func TestAssemble(t *testing.T) {
	m, assets, err := Assemble(Localize(loadFixture(t)), nil)
	require.NoError(t, err)

	want := &Manifest{
		AllOperators: []string{"recruit", "ash", "smoke"},
		Attackers:    []string{"recruit", "ash"},
		Defenders:    []string{"smoke"},
		Operators: map[string]Operator{
			"recruit": {
				Category: "attack", Unit: "SAS",
				Small: "operators/recruit/small.png", Large: "operators/recruit/large.png",
				Mask: "operators/recruit/mask.png", Icon: "operators/recruit/icon.png",
			},
			"ash": {
				Category: "attack", Name: "Ash", Unit: "FBI SWAT",
				StatID: "operatorpvp_ash_bonfirewallbreached", StatLabel: "Bonfire Wall Breached",
				Small: "operators/ash/small.png", Large: "operators/ash/large.png",
				Mask: "operators/ash/mask.png", Icon: "operators/ash/icon.png",
			},
			"smoke": {
				Category: "defend", Name: "Smoke", Unit: "SAS",
				StatID: "operatorpvp_smoke_poisongaskill", StatLabel: "Poison Gas Kills",
				Small: "operators/smoke/small.png", Large: "operators/smoke/large.png",
				Mask: "operators/smoke/mask.png", Icon: "operators/smoke/icon.png",
			},
		},
		AllSeasons:    []string{"s1", "s2"},
		CurrentSeason: float64(2),
		Seasons: map[string]Season{
			"s1": {Name: "Black Ice", Background: "seasons/s1/background.jpg", Divisions: []string{"s1-d0", "s1-d1"}},
			"s2": {Name: "Dust Line", Background: "seasons/s2/background.jpg"},
		},
		Divisions: map[string]Division{
			"s1-d0":  {Name: "Unranked", Ranks: []string{"s1-r0"}},
			"s1-d1":  {Name: "Copper", Ranks: []string{"s1-r1", "s1-r2"}},
			"s3-d10": {Name: "Copper", Ranks: []string{"s3-r10"}},
		},
		Ranks: map[string]Rank{
			"s1-r0":  {Name: "Unranked", Icon: "seasons/s1/ranks/r0/icon.svg"},
			"s1-r1":  {Name: "Copper", Min: 0, Max: 1399, Icon: "seasons/s1/ranks/r1/icon.svg"},
			"s1-r2":  {Name: "Bronze", Min: 1400, Max: 1499, Icon: "seasons/s1/ranks/r2/icon.svg"},
			"s3-r10": {Name: "Copper", Min: 0, Max: 1599, Icon: "seasons/s3/ranks/r10/icon.svg"},
		},
		AllRanks:     []string{"s1-r0", "s1-r1", "s1-r2", "s3-r10"},
		AllDivisions: []string{"s1-d0", "s1-d1", "s3-d10"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}

	wantAssets := []Asset{
		{"assets/images/recruit-badge.png", "operators/recruit/icon.png"},
		{"assets/images/ash-large.png", "operators/ash/large.png"},
		{"assets/images/ash-small.png", "operators/ash/small.png"},
		{"assets/images/ash-mask.png", "operators/ash/mask.png"},
		{"assets/images/ash-badge.png", "operators/ash/icon.png"},
		{"assets/images/smoke-large.png", "operators/smoke/large.png"},
		{"assets/images/smoke-small.png", "operators/smoke/small.png"},
		{"assets/images/smoke-mask.png", "operators/smoke/mask.png"},
		{"assets/images/smoke-badge.png", "operators/smoke/icon.png"},
		{"assets/images/s1-bg.jpg", "seasons/s1/background.jpg"},
		{"assets/images/s2-bg.jpg", "seasons/s2/background.jpg"},
		{"assets/ranks/unranked.svg", "seasons/s1/ranks/r0/icon.svg"},
		{"assets/ranks/copper-hd.svg", "seasons/s1/ranks/r1/icon.svg"},
		{"assets/ranks/bronze.svg", "seasons/s1/ranks/r2/icon.svg"},
		{"assets/ranks/s3-copper.svg", "seasons/s3/ranks/r10/icon.svg"},
	}
	if diff := cmp.Diff(wantAssets, assets); diff != "" {
		t.Fatalf("assets mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleMissingSource(t *testing.T) {
	src := Localize(loadFixture(t))
	delete(src, "ranks")

	_, _, err := Assemble(src, nil)
	require.True(t, errors.Is(err, ErrMissingSource))
	require.ErrorContains(t, err, "ranks")
}

func TestWriteRead(t *testing.T) {
	m, _, err := Assemble(Localize(loadFixture(t)), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dist", "manifest.json")
	require.NoError(t, Write(path, m))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"allOperators":["recruit","ash","smoke"]`)
	require.Contains(t, string(raw), `"s1-r1":{"name":"Copper","min":0,"max":1399,"icon":"seasons/s1/ranks/r1/icon.svg"}`)

	back, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, m.AllRanks, back.AllRanks)
	require.Equal(t, m.Operators, back.Operators)
}

func TestMergeScraped(t *testing.T) {
	m, _, err := Assemble(Localize(loadFixture(t)), nil)
	require.NoError(t, err)

	n := MergeScraped(m, []pagescrape.OperatorCard{
		{ID: "Recruit", Name: "Recruit"},
		{ID: "ash", Name: "ASH"},
		{ID: "unknown", Name: "Nobody"},
	})

	require.Equal(t, 1, n)
	require.Equal(t, "Recruit", m.Operators["recruit"].Name)
	require.Equal(t, "Ash", m.Operators["ash"].Name)
	require.NotContains(t, m.Operators, "unknown")
}

func TestEnumerationOrder(t *testing.T) {
	keys := []string{"b", "10", "a", "2", "01", "0"}
	require.Equal(t, []string{"0", "2", "10", "b", "a", "01"}, enumerationOrder(keys))
}

// sourcesFrom decodes raw documents the way LoadSources does.
func sourcesFrom(t *testing.T, docs map[string]string) Sources {
	t.Helper()
	src := Sources{}
	for kind, raw := range docs {
		v, err := decode([]byte(raw))
		require.NoError(t, err, kind)
		src[kind] = v
	}
	return src
}

type debugLog struct{ lines []string }

func (l *debugLog) Debugf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestDecodeKeepsKeyOrder(t *testing.T) {
	v, err := decode([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[{"k":"v"}],"z":2}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	b, err := json.Marshal(obj)
	require.NoError(t, err)
	require.Equal(t, `{"z":2,"a":{"y":true,"b":null},"m":[{"k":"v"}]}`, string(b))
}

func TestLocalizeKeepsKeyOrder(t *testing.T) {
	src := sourcesFrom(t, map[string]string{
		"locale": `{"7":"Seven"}`,
		"things": `{"b":{"oasisId":7},"a":[{"oasisId":7}],"c":{"oasisId":8}}`,
	})

	got, err := json.Marshal(Localize(src)["things"])
	require.NoError(t, err)
	require.Equal(t, `{"b":"Seven","a":["Seven"],"c":null}`, string(got))
}

func TestAssembleArrayCollections(t *testing.T) {
	src := sourcesFrom(t, map[string]string{
		"operators": `[{"id":"ash","category":"atk","name":"Ash","index":"1:1"}]`,
		"seasons":   `{"latestSeason":1,"seasons":{"1":{"name":"Black Ice","background":"bg.jpg"}}}`,
		"ranks": `{"seasons":[{"id":1,
			"divisions":[{"name":"Copper","ranks":[1,2]}],
			"ranks":[{"name":"Unranked"},{"name":"Copper","range":[0,1399]},{"name":"Bronze","range":{"0":1400,"1":1499}}]}]}`,
	})

	m, assets, err := Assemble(Localize(src), nil)
	require.NoError(t, err)

	require.Equal(t, []string{"ash"}, m.AllOperators)
	require.Equal(t, "Ash", m.Operators["ash"].Name)
	require.Equal(t, []string{"s1-d0"}, m.AllDivisions)
	require.Equal(t, []string{"s1-r0", "s1-r1", "s1-r2"}, m.AllRanks)
	require.Equal(t, []string{"s1-d0"}, m.Seasons["s1"].Divisions)

	if diff := cmp.Diff(Division{Name: "Copper", Ranks: []string{"s1-r0", "s1-r1"}}, m.Divisions["s1-d0"]); diff != "" {
		t.Fatalf("division mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Rank{Name: "Bronze", Min: 1400, Max: 1499, Icon: "seasons/s1/ranks/r2/icon.svg"}, m.Ranks["s1-r2"]); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []Asset{{"bg.jpg", "seasons/s1/background.jpg"}}, assets)
}

func TestAssembleKeepsSourceKeyOrder(t *testing.T) {
	src := sourcesFrom(t, map[string]string{
		"operators": `{}`,
		"seasons":   `{"seasons":{"b":{"name":"B"},"2":{"name":"Two"},"a":{"name":"A"},"1":{"name":"One"}}}`,
		"ranks":     `{"seasons":{}}`,
	})

	m, _, err := Assemble(Localize(src), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2", "sb", "sa"}, m.AllSeasons)
}

func TestAssembleIgnoresNonTextDisplayValue(t *testing.T) {
	src := sourcesFrom(t, map[string]string{
		"operators": `{"ash":{"id":"ash","category":"atk","name":{"short":"Ash"},"ctu":"FBI SWAT","index":"1"}}`,
		"seasons":   `{"seasons":{"1":{"name":["Black","Ice"]}}}`,
		"ranks":     `{"seasons":{}}`,
	})

	log := &debugLog{}
	m, _, err := Assemble(Localize(src), log)
	require.NoError(t, err)

	require.Empty(t, m.Operators["ash"].Name)
	require.Equal(t, "FBI SWAT", m.Operators["ash"].Unit)
	require.Empty(t, m.Seasons["s1"].Name)
	require.Equal(t, []string{
		`Ignoring non-text name of operator ash: {"short":"Ash"}`,
		`Ignoring non-text name of season s1: ["Black","Ice"]`,
	}, log.lines)
}

func TestCollectionRejectsScalars(t *testing.T) {
	var c collection[rankSrc]
	require.Error(t, json.Unmarshal([]byte(`"nope"`), &c))
}
