package apireport

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/r6scrape/internal/capture"
)

func TestParseURL(t *testing.T) {
	got := parseURL("https://public-ubiservices.ubi.com/v3/profiles/abc/stats?spaceIds=a,b&limit=10")

	want := Request{
		URL:      "https://public-ubiservices.ubi.com/v3/profiles/abc/stats?spaceIds=a,b&limit=10",
		Scheme:   "https",
		Host:     "public-ubiservices.ubi.com",
		Version:  3,
		Endpoint: "profiles/abc/stats",
		Query: []QueryParam{
			{Key: "spaceIds", Values: []string{"a", "b"}},
			{Key: "limit", Values: []string{"10"}},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parseURL mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVersion(t *testing.T) {
	cases := map[string]int{
		"v1":     1,
		"v12":    12,
		"v2beta": 2,
		"api":    0,
		"":       0,
	}

	for in, want := range cases {
		require.Equal(t, want, parseVersion(in), in)
	}
}

func TestOrganize(t *testing.T) {
	reqs := []capture.APIRequest{
		{URL: "https://h/v2/profiles/PID/a"},
		{URL: "https://h/v1/search/ashplayer"},
		{URL: "https://h/v2/profiles/PID/z"},
		{URL: "https://h/v2/profiles/PID/a"},
	}

	got := Organize(reqs, "PID", "ashplayer")
	require.Len(t, got, 3)

	require.Equal(t, "https://h/v1/search/", got[0].URL)
	require.Equal(t, "profiles/{PROFILE_ID}/z", got[1].Endpoint)
	require.Equal(t, "profiles/{PROFILE_ID}/a", got[2].Endpoint)
}

func TestOrganizeKeepsRequestsWithDifferentResponses(t *testing.T) {
	reqs := []capture.APIRequest{
		{URL: "https://h/v1/x", Response: map[string]any{"n": 1}},
		{URL: "https://h/v1/x", Response: map[string]any{"n": 2}},
	}

	require.Len(t, Organize(reqs, "", ""), 2)
}

func TestLimit(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := limit(long, urlLimit)

	require.True(t, strings.HasSuffix(got, "..."))
	require.Len(t, got, urlLimit-1)
	require.Equal(t, "short", limit("short", urlLimit))
}

func TestURLList(t *testing.T) {
	reqs := []Request{{URL: "a"}, {URL: "b"}}
	require.Equal(t, "a\nb", URLList(reqs))
}

func TestRender(t *testing.T) {
	reqs := Organize([]capture.APIRequest{
		{
			URL:             "https://h/v1/stats?ids=1,2",
			Headers:         map[string]string{"Authorization": "={AUTH_TOKEN}"},
			Response:        map[string]any{"ok": true},
			ResponseHeaders: map[string]string{"content-type": "application/json"},
		},
		{URL: "https://h/v1/missing"},
	}, "", "")

	ascii, md := Render(reqs)

	require.True(t, strings.HasPrefix(ascii, "API Format\n\n"))
	require.Contains(t, ascii, "Request #0:")
	require.Contains(t, ascii, "Request #1:")
	require.Contains(t, ascii, "={AUTH_TOKEN}")
	require.Contains(t, ascii, "Error: no response")
	require.Contains(t, ascii, "Response: \n{\n  \"ok\": true\n}")

	require.True(t, strings.HasPrefix(md, "# API Format\n"))
	require.Contains(t, md, "### Request Details \n\n")
	require.Contains(t, md, "## Request #0")
	require.Contains(t, md, "```json\n{\n  \"ok\": true\n}\n```")
	require.Contains(t, md, "1,2")
}
