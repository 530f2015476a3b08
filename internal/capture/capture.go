package capture

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var ErrUnknownManifest = errors.New("unrecognized manifest file name")

var (
	reAuthToken    = regexp.MustCompile(`=([A-Za-z0-9-._]+)`)
	reManifestName = regexp.MustCompile(`___([a-z]+).(?:[a-z-]+.)?(?:[a-z0-9]+).([a-z]+)$`)
	urlStripper    = strings.NewReplacer(`\`, "", "<", "", ">", "", ":", "", `"`, "", "|", "", "?", "", "*", "")
)

// RequestInfo is what a browser hook knows about an outgoing request.
type RequestInfo struct {
	URL          string
	Method       string
	ResourceType string
}

// ResponseInfo pairs a finished request with its decoded JSON body.
type ResponseInfo struct {
	Request         RequestInfo
	RequestHeaders  map[string]string
	ResponseHeaders map[string]string
	// JSON is called at most once, only for responses that are recorded.
	JSON func() (any, error)
}

type APIRequest struct {
	URL             string            `json:"url"`
	Headers         map[string]string `json:"headers"`
	Response        any               `json:"response"`
	ResponseHeaders map[string]string `json:"responseHeaders"`
}

type Recorder struct {
	apiPrefix string
	log       interface{ Debugf(string, ...any) }

	mu        sync.Mutex
	manifests []string
	seen      map[string]bool
	requests  []APIRequest
}

func NewRecorder(apiPrefix string, log interface{ Debugf(string, ...any) }) *Recorder {
	return &Recorder{
		apiPrefix: apiPrefix,
		log:       log,
		seen:      map[string]bool{},
	}
}

func (r *Recorder) debugf(format string, args ...any) {
	if r.log != nil {
		r.log.Debugf(format, args...)
	}
}

func (r *Recorder) ObserveRequest(req RequestInfo) {
	if req.ResourceType != "xhr" || !strings.HasSuffix(req.URL, ".json") {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen[req.URL] {
		return
	}
	r.seen[req.URL] = true
	r.manifests = append(r.manifests, req.URL)
	r.debugf("Added %s to manifest list.", req.URL)
}

func (r *Recorder) ObserveResponse(res ResponseInfo) {
	req := res.Request
	if req.ResourceType != "xhr" ||
		strings.EqualFold(req.Method, "OPTIONS") ||
		!strings.HasPrefix(req.URL, r.apiPrefix) {
		return
	}

	r.debugf("Identified API request %s.", req.URL)

	var body any
	if res.JSON != nil {
		v, err := res.JSON()
		if err != nil {
			r.debugf("Response of %s is not JSON: %v", req.URL, err)
		} else {
			body = v
		}
	}

	rec := APIRequest{
		URL:             req.URL,
		Headers:         RedactHeaders(res.RequestHeaders),
		Response:        body,
		ResponseHeaders: copyHeaders(res.ResponseHeaders),
	}

	r.mu.Lock()
	r.requests = append(r.requests, rec)
	r.mu.Unlock()
}

func (r *Recorder) ManifestURLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.manifests...)
}

func (r *Recorder) APIRequests() []APIRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]APIRequest(nil), r.requests...)
}

// RedactHeaders replaces the token in the authorization header with a
// placeholder. Other headers are copied unchanged.
func RedactHeaders(h map[string]string) map[string]string {
	out := copyHeaders(h)
	for k, v := range out {
		if strings.EqualFold(k, "authorization") {
			out[k] = redactToken(v)
		}
	}

	return out
}

func redactToken(v string) string {
	loc := reAuthToken.FindStringIndex(v)
	if loc == nil {
		return v
	}

	return v[:loc[0]] + "={AUTH_TOKEN}" + v[loc[1]:]
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}

	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}

	return out
}

// CleanURL turns a URL into a flat file name.
func CleanURL(u string) string {
	return urlStripper.Replace(strings.ReplaceAll(u, "/", "___"))
}

// ManifestName returns the manifest kind encoded in a cleaned file name,
// e.g. "operators" for "...___operators.en-us.ab12cd.json".
func ManifestName(cleaned string) (string, error) {
	m := reManifestName.FindStringSubmatch(cleaned)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownManifest, cleaned)
	}

	return m[1], nil
}
