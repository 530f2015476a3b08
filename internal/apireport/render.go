package apireport

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// section is one block of the report in both output formats.
type section struct {
	ascii string
	md    string
}

func newTable(title string, heading table.Row, rows []table.Row) section {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.AppendHeader(heading)
	t.AppendRows(rows)

	md := fmt.Sprintf("### %s \n\n%s", title, t.RenderMarkdown())

	t.SetTitle(title)
	return section{ascii: t.Render(), md: md}
}

func headerRows(h map[string]string) []table.Row {
	if len(h) == 0 {
		return []table.Row{{"", ""}}
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, table.Row{k, h[k]})
	}

	return rows
}

func queryRows(q []QueryParam) []table.Row {
	if len(q) == 0 {
		return []table.Row{{"", ""}}
	}

	rows := make([]table.Row, 0, len(q))
	for _, p := range q {
		rows = append(rows, table.Row{p.Key, p.Value()})
	}

	return rows
}

func overview(reqs []Request) section {
	rows := make([]table.Row, 0, len(reqs))
	for i, r := range reqs {
		keys := make([]string, len(r.Query))
		for j, q := range r.Query {
			keys[j] = q.Key
		}
		rows = append(rows, table.Row{i, r.Version, r.Endpoint, strings.Join(keys, ","), r.Scheme, r.Host, limit(r.URL, urlLimit)})
	}

	return newTable("Request Details",
		table.Row{"#", "Version", "Endpoint", "Query String Parameters", "Scheme", "Host", "URL"},
		rows)
}

func detail(i int, r Request) []section {
	out := []section{
		{ascii: fmt.Sprintf("Request #%d:", i), md: fmt.Sprintf("## Request #%d", i)},
		newTable("Request", table.Row{"Host", "Version", "Endpoint"}, []table.Row{{r.Host, r.Version, r.Endpoint}}),
		newTable("Query String", table.Row{"Parameter", "Value"}, queryRows(r.Query)),
		newTable("Request Headers", table.Row{"Header", "Value"}, headerRows(r.Headers)),
		newTable("Response Headers", table.Row{"Header", "Value"}, headerRows(r.ResponseHeaders)),
	}

	if r.Response == nil {
		return append(out, section{ascii: "Error: no response", md: "Error: no response"})
	}

	body, err := json.MarshalIndent(r.Response, "", "  ")
	if err != nil {
		return append(out, section{ascii: "Error: " + err.Error(), md: "Error: " + err.Error()})
	}

	return append(out, section{
		ascii: "Response: \n" + string(body),
		md:    "### Response \n```json\n" + string(body) + "\n```",
	})
}

// Render produces the ascii report and the markdown page body.
func Render(reqs []Request) (ascii, md string) {
	ov := overview(reqs)

	asciiDetails := make([]string, 0, len(reqs))
	mdDetails := make([]string, 0, len(reqs))
	for i, r := range reqs {
		var a, m []string
		for _, s := range detail(i, r) {
			a = append(a, s.ascii)
			m = append(m, s.md)
		}
		asciiDetails = append(asciiDetails, strings.Join(a, "\n"))
		mdDetails = append(mdDetails, strings.Join(m, "\n"))
	}

	ascii = strings.Join([]string{
		"API Format",
		ov.ascii,
		strings.Join(asciiDetails, "\n\n"),
	}, "\n\n")

	md = strings.Join([]string{
		"# API Format\nThis page is generated automatically by the API scraper.",
		ov.md,
		strings.Join(mdDetails, "\n\n"),
	}, "\n\n")

	return ascii, md
}
