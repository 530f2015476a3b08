package manifest

import (
	"strings"

	"github.com/brogergvhs/r6scrape/internal/pagescrape"
)

// MergeScraped fills operator names left empty by localization with names
// scraped from an operator grid page. It returns how many were filled.
func MergeScraped(m *Manifest, cards []pagescrape.OperatorCard) int {
	byID := make(map[string]string, len(cards))
	for _, c := range cards {
		if c.ID != "" && c.Name != "" {
			byID[strings.ToLower(c.ID)] = c.Name
		}
	}

	filled := 0
	for id, op := range m.Operators {
		if op.Name != "" {
			continue
		}
		if name, ok := byID[strings.ToLower(id)]; ok {
			op.Name = name
			m.Operators[id] = op
			filled++
		}
	}

	return filled
}
