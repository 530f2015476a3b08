package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brogergvhs/r6scrape/internal/util"
)

type Manifest struct {
	AllOperators  []string            `json:"allOperators"`
	Attackers     []string            `json:"attackers"`
	Defenders     []string            `json:"defenders"`
	Operators     map[string]Operator `json:"operators"`
	AllSeasons    []string            `json:"allSeasons"`
	CurrentSeason any                 `json:"currentSeason"`
	Seasons       map[string]Season   `json:"seasons"`
	Divisions     map[string]Division `json:"divisions"`
	Ranks         map[string]Rank     `json:"ranks"`
	AllRanks      []string            `json:"allRanks"`
	AllDivisions  []string            `json:"allDivisions"`
}

type Operator struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	StatID    string `json:"statId"`
	StatLabel string `json:"statLabel"`
	Small     string `json:"small"`
	Large     string `json:"large"`
	Mask      string `json:"mask"`
	Icon      string `json:"icon"`
}

type Season struct {
	Name       string   `json:"name"`
	Background string   `json:"background"`
	Divisions  []string `json:"divisions,omitempty"`
}

type Division struct {
	Name  string   `json:"name"`
	Ranks []string `json:"ranks"`
}

type Rank struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Icon string  `json:"icon"`
}

// Asset is a file the manifest references. URL is relative to the site's
// asset base; Local is relative to the assets output directory.
type Asset struct {
	URL   string
	Local string
}

func Write(path string, m *Manifest) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	return util.WriteFile(path, b)
}

func Read(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	return &m, nil
}
