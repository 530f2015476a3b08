// Package apireport turns the API calls observed during a browser session
// into a readable reference: one overview table plus a detail section per
// request, rendered as ascii text and as markdown.
package apireport

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/brogergvhs/r6scrape/internal/capture"
)

const (
	ProfilePlaceholder = "{PROFILE_ID}"
	urlLimit           = 100
)

type QueryParam struct {
	Key    string
	Values []string
}

func (q QueryParam) Value() string {
	return strings.Join(q.Values, ",")
}

type Request struct {
	URL             string
	Scheme          string
	Host            string
	Version         int
	Endpoint        string
	Query           []QueryParam
	Headers         map[string]string
	Response        any
	ResponseHeaders map[string]string
}

// Organize dedupes the recorded requests, scrubs the profile id and search
// term from their URLs, splits the URLs into parts and sorts them by API
// version, then endpoint (descending).
func Organize(reqs []capture.APIRequest, profileID, searchTerm string) []Request {
	seen := map[string]bool{}
	out := make([]Request, 0, len(reqs))

	for _, r := range reqs {
		u := r.URL
		if profileID != "" {
			u = strings.ReplaceAll(u, profileID, ProfilePlaceholder)
		}
		if searchTerm != "" {
			u = strings.ReplaceAll(u, searchTerm, "")
		}

		key := fingerprint(u, r)
		if seen[key] {
			continue
		}
		seen[key] = true

		req := parseURL(u)
		req.Headers = r.Headers
		req.Response = r.Response
		req.ResponseHeaders = r.ResponseHeaders
		out = append(out, req)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version < out[j].Version
		}
		return out[i].Endpoint > out[j].Endpoint
	})

	return out
}

func fingerprint(u string, r capture.APIRequest) string {
	b, err := json.Marshal(struct {
		H  map[string]string
		R  any
		RH map[string]string
	}{r.Headers, r.Response, r.ResponseHeaders})
	if err != nil {
		return u
	}
	return u + "\x00" + string(b)
}

func parseURL(u string) Request {
	req := Request{URL: u}

	rest := u
	if scheme, after, ok := strings.Cut(u, "://"); ok {
		req.Scheme, rest = scheme, after
	}

	parts := strings.Split(rest, "/")
	req.Host = parts[0]
	if len(parts) > 1 {
		req.Version = parseVersion(parts[1])
	}

	var tail string
	if len(parts) > 2 {
		tail = strings.Join(parts[2:], "/")
	}

	endpoint, query, _ := strings.Cut(tail, "?")
	req.Endpoint = endpoint
	req.Query = parseQuery(query)

	return req
}

// parseVersion reads "v3" as 3. Anything else is 0.
func parseVersion(seg string) int {
	seg = strings.TrimPrefix(strings.ToLower(seg), "v")
	n := 0
	for n < len(seg) && seg[n] >= '0' && seg[n] <= '9' {
		n++
	}

	v, err := strconv.Atoi(seg[:n])
	if err != nil {
		return 0
	}
	return v
}

func parseQuery(q string) []QueryParam {
	if q == "" {
		return nil
	}

	var out []QueryParam
	for _, piece := range strings.Split(q, "&") {
		if piece == "" {
			continue
		}
		k, v, _ := strings.Cut(piece, "=")
		out = append(out, QueryParam{Key: k, Values: strings.Split(v, ",")})
	}

	return out
}

// URLList is the plain list of request URLs, one per line.
func URLList(reqs []Request) string {
	urls := make([]string, len(reqs))
	for i, r := range reqs {
		urls[i] = r.URL
	}

	return strings.Join(urls, "\n")
}

func limit(s string, n int) string {
	if len(s) > n {
		return s[:n-4] + "..."
	}
	return s
}
