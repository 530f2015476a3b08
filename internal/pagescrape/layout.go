package pagescrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutLogin
	LayoutLanding
	LayoutStats
	LayoutOperatorGrid
)

func (l Layout) String() string {
	switch l {
	case LayoutLogin:
		return "login"
	case LayoutLanding:
		return "landing"
	case LayoutStats:
		return "stats"
	case LayoutOperatorGrid:
		return "operator-grid"
	default:
		return "unknown"
	}
}

const (
	selEmail     = `input#AuthEmail, input[name="AuthEmail"]`
	selPassword  = `input#AuthPassword, input[name="AuthPassword"]`
	selRemember  = `input#RememberMe, input[name="RememberMe"]`
	selLoginBtn  = `button#LogInButton, button[name="LogInButton"]`
	selFooter    = `div.footer-legal.rs-atom-box`
	selFooterAny = `.footer-legal`
	selSearch    = `.search a`
)

type marker struct {
	weight int
	test   func(doc *goquery.Document) bool
}

type layoutRule struct {
	layout  Layout
	markers []marker
}

// rules are evaluated in order; on equal scores the earlier rule wins.
var rules = []layoutRule{
	{LayoutLogin, []marker{
		{2, has(selEmail)},
		{2, has(selPassword)},
		{2, has(selLoginBtn)},
	}},
	{LayoutLanding, []marker{
		{3, hasLoginButtonText},
		{2, has(selFooterAny)},
	}},
	{LayoutStats, []marker{
		{3, has(selSearch)},
		{1, has(selFooterAny)},
		{1, func(doc *goquery.Document) bool { return !hasLoginButtonText(doc) }},
	}},
	{LayoutOperatorGrid, []marker{
		{3, func(doc *goquery.Document) bool { return countCards(doc) >= 2 }},
		{3, func(doc *goquery.Document) bool { return countCards(doc) >= 6 }},
	}},
}

func has(sel string) func(*goquery.Document) bool {
	return func(doc *goquery.Document) bool {
		return doc.Find(sel).Length() > 0
	}
}

func hasLoginButtonText(doc *goquery.Document) bool {
	found := false
	doc.Find("button").EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if strings.TrimSpace(b.Text()) == "LOG IN" {
			found = true
			return false
		}
		return true
	})

	return found
}

// Score reports how strongly doc matches each known layout.
func Score(doc *goquery.Document) map[Layout]int {
	out := make(map[Layout]int, len(rules))
	for _, r := range rules {
		s := 0
		for _, m := range r.markers {
			if m.test(doc) {
				s += m.weight
			}
		}
		out[r.layout] = s
	}

	return out
}

// Classify picks the best scoring layout. A page that only matches the
// catch-all markers is unknown.
func Classify(doc *goquery.Document) Layout {
	best, bestScore := LayoutUnknown, 0
	scores := Score(doc)

	for _, r := range rules {
		if s := scores[r.layout]; s > bestScore && s >= minScore {
			best, bestScore = r.layout, s
		}
	}

	return best
}

// minScore keeps a bare page (no login button, nothing else) from counting
// as the stats layout.
const minScore = 2
