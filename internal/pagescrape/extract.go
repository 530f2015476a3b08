package pagescrape

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reVersion = regexp.MustCompile(`v?\d+(?:\.\d+)+`)

type OperatorCard struct {
	ID       string
	Name     string
	Image    string
	Category string
}

type Page struct {
	Layout         Layout
	Version        string
	HasLoginButton bool
	LoginFields    []string
	HasSearch      bool
	Operators      []OperatorCard
}

func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Extract classifies doc and fills the fields its layout provides.
func Extract(doc *goquery.Document, pageURL string) Page {
	p := Page{Layout: Classify(doc)}

	switch p.Layout {
	case LayoutLogin:
		p.LoginFields = loginFields(doc)
	case LayoutLanding:
		p.HasLoginButton = true
		p.Version = Version(doc)
	case LayoutStats:
		p.HasSearch = doc.Find(selSearch).Length() > 0
		p.Version = Version(doc)
		p.Operators = OperatorCards(doc, pageURL)
	case LayoutOperatorGrid:
		p.Operators = OperatorCards(doc, pageURL)
		p.Version = Version(doc)
	}

	return p
}

func loginFields(doc *goquery.Document) []string {
	var out []string
	for _, f := range []struct{ name, sel string }{
		{"AuthEmail", selEmail},
		{"AuthPassword", selPassword},
		{"RememberMe", selRemember},
		{"LogInButton", selLoginBtn},
	} {
		if doc.Find(f.sel).Length() > 0 {
			out = append(out, f.name)
		}
	}

	return out
}

// Version reads the build version printed as the last line of the legal
// footer. It returns "" when no footer carries one.
func Version(doc *goquery.Document) string {
	if v := lastLine(doc.Find(selFooter).First()); v != "" {
		return v
	}
	if v := lastLine(doc.Find(selFooterAny).First()); v != "" {
		return v
	}

	footer := doc.Find("footer, " + selFooterAny)
	if m := reVersion.FindString(footer.Text()); m != "" {
		return m
	}

	return ""
}

func lastLine(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	lines := innerTextLines(sel)
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}

	return ""
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "div": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "li": true, "nav": true, "ol": true, "p": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// innerTextLines approximates the browser's innerText: block elements and
// <br> break lines.
func innerTextLines(sel *goquery.Selection) []string {
	var b strings.Builder

	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			name := goquery.NodeName(c)
			switch {
			case name == "#text":
				b.WriteString(c.Text())
			case name == "br":
				b.WriteString("\n")
			case name == "script" || name == "style":
			case blockTags[name]:
				b.WriteString("\n")
				walk(c)
				b.WriteString("\n")
			default:
				walk(c)
			}
		})
	}
	walk(sel)

	raw := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}

	return out
}

const selCards = `[data-operator], .operator-card, figure`

func cardSelection(doc *goquery.Document) *goquery.Selection {
	return doc.Find(selCards).FilterFunction(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "figure" {
			return s.Find("img").Length() > 0 && s.Find("figcaption").Length() > 0
		}
		return true
	})
}

func countCards(doc *goquery.Document) int {
	return cardSelection(doc).Length()
}

// OperatorCards lists the operator cards of a grid page. Nested card
// markup is reported once, by the outermost card.
func OperatorCards(doc *goquery.Document, pageURL string) []OperatorCard {
	var out []OperatorCard
	seen := map[string]bool{}

	cards := cardSelection(doc)
	cards.Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(selCards).Intersection(cards).Length() > 0 {
			return
		}

		c := OperatorCard{
			ID:       cardID(s),
			Name:     cardName(s),
			Image:    cardImage(s, pageURL),
			Category: cardCategory(s),
		}
		if c.ID == "" && c.Name == "" {
			return
		}

		key := c.ID
		if key == "" {
			key = "name:" + strings.ToLower(c.Name)
		}
		if seen[key] {
			return
		}
		seen[key] = true

		out = append(out, c)
	})

	return out
}

func cardID(s *goquery.Selection) string {
	for _, attr := range []string{"data-operator", "data-id"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	href, ok := s.Attr("href")
	if !ok {
		href, ok = s.Find("a[href]").First().Attr("href")
	}
	if ok {
		if u, err := url.Parse(strings.TrimSpace(href)); err == nil {
			if base := path.Base(strings.TrimRight(u.Path, "/")); base != "." && base != "/" {
				return base
			}
		}
	}

	return ""
}

func cardName(s *goquery.Selection) string {
	if v, ok := s.Attr("data-name"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	for _, sel := range []string{".operator-name", "figcaption", "h2, h3, h4"} {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return strings.Join(strings.Fields(t), " ")
		}
	}

	if alt, ok := s.Find("img").First().Attr("alt"); ok {
		return strings.TrimSpace(alt)
	}

	return ""
}

func cardImage(s *goquery.Selection, pageURL string) string {
	img := s.Find("img").First()
	for _, k := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := img.Attr(k); ok && strings.TrimSpace(v) != "" && !strings.HasPrefix(v, "data:") {
			return resolve(pageURL, strings.TrimSpace(v))
		}
	}

	return ""
}

func cardCategory(s *goquery.Selection) string {
	if v, ok := s.Attr("data-category"); ok && v != "" {
		return normalizeCategory(v)
	}

	side := s.ParentsFiltered("[data-category], [data-side]").First()
	for _, attr := range []string{"data-category", "data-side"} {
		if v, ok := side.Attr(attr); ok && v != "" {
			return normalizeCategory(v)
		}
	}

	class, _ := s.Attr("class")
	return normalizeCategory(class)
}

func normalizeCategory(v string) string {
	words := strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return r < 'a' || r > 'z'
	})

	for _, w := range words {
		switch w {
		case "atk", "attack", "attacker", "attackers":
			return "atk"
		case "def", "defense", "defence", "defender", "defenders":
			return "def"
		}
	}

	return ""
}

func resolve(pageURL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	if u.IsAbs() {
		return u.String()
	}

	base, err := url.Parse(pageURL)
	if err != nil || base == nil {
		return raw
	}

	return base.ResolveReference(u).String()
}
