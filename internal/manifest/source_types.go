package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// text is a display value. The site ships strings, numbers, or null once
// localization found no entry. Any other value is kept in odd and reads as
// an empty string.
type text struct {
	s   string
	odd json.RawMessage
}

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*t = text{}

	switch {
	case bytes.Equal(b, []byte("null")):
	case len(b) > 0 && b[0] == '"':
		if err := json.Unmarshal(b, &t.s); err != nil {
			return err
		}
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("display value %s: %w", b, err)
		}
		t.s = n.String()
	default:
		t.odd = append(json.RawMessage(nil), b...)
	}

	return nil
}

type operatorSource struct {
	ID              text   `json:"id"`
	Category        string `json:"category"`
	Name            text   `json:"name"`
	Index           string `json:"index"`
	CTU             text   `json:"ctu"`
	UniqueStatistic struct {
		PVP struct {
			StatisticID text `json:"statisticId"`
			Label       text `json:"label"`
		} `json:"pvp"`
	} `json:"uniqueStatistic"`
	Mask   string `json:"mask"`
	Badge  string `json:"badge"`
	Figure struct {
		Large string `json:"large"`
		Small string `json:"small"`
	} `json:"figure"`
}

type seasonsSource struct {
	LatestSeason any                         `json:"latestSeason"`
	Seasons      collection[seasonRecordSrc] `json:"seasons"`
}

type seasonRecordSrc struct {
	Name       text   `json:"name"`
	Background string `json:"background"`
}

type ranksSource struct {
	Seasons collection[rankSeasonSrc] `json:"seasons"`
}

type rankSeasonSrc struct {
	ID        text                    `json:"id"`
	Divisions collection[divisionSrc] `json:"divisions"`
	Ranks     collection[rankSrc]     `json:"ranks"`
}

type divisionSrc struct {
	Name  text                        `json:"name"`
	Ranks collection[json.RawMessage] `json:"ranks"`
}

type rankSrc struct {
	Name   text       `json:"name"`
	Range  *rankRange `json:"range"`
	Images struct {
		HD      string `json:"hd"`
		Default string `json:"default"`
	} `json:"images"`
}

// rankRange is [min, max] or {"0": min, "1": max}.
type rankRange struct {
	Min, Max float64
}

func (r *rankRange) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if len(b) > 0 && b[0] == '[' {
		var arr []*float64
		if err := json.Unmarshal(b, &arr); err != nil {
			return fmt.Errorf("rank range: %w", err)
		}
		r.Min, r.Max = at(arr, 0), at(arr, 1)
		return nil
	}

	var obj map[string]*float64
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("rank range: %w", err)
	}
	r.Min, r.Max = deref(obj["0"]), deref(obj["1"])

	return nil
}

func at(arr []*float64, i int) float64 {
	if i < len(arr) {
		return deref(arr[i])
	}
	return 0
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// decodeInto re-encodes a localized tree into a typed source struct.
func decodeInto(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}
