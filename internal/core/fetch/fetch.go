package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single evidence-gathering call.
	DefaultTimeout = 7 * time.Second

	// maxBodyBytes caps how much of an upstream body is retained as
	// evidence. Profile pages large enough to hit this are already
	// conclusive long before the cap.
	maxBodyBytes = 512 * 1024
)

// Failure causes reported in Evidence.Failure.
const (
	FailureTimeout = "timeout"
	FailureNetwork = "network_error"
)

// RedirectPolicy controls how a single call treats 3xx responses.
type RedirectPolicy int

const (
	// FollowRedirects follows redirects opaquely and surfaces the final
	// status.
	FollowRedirects RedirectPolicy = iota

	// ManualRedirects does not follow; the 3xx status itself is evidence.
	ManualRedirects
)

// Headers is the shared default header set applied to outbound calls when
// the caller does not override a field. It is passed explicitly so tests
// can pin headers deterministically.
type Headers struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

// DefaultHeaders returns the stock identifying header set.
func DefaultHeaders() Headers {
	return Headers{
		UserAgent:      "handlelens (+https://github.com/handlelens/handlelens)",
		Accept:         "text/html,application/xhtml+xml,application/json",
		AcceptLanguage: "en-US,en;q=0.9",
	}
}

// Request describes one outbound evidence-gathering call.
type Request struct {
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
	Redirects RedirectPolicy
	Timeout   time.Duration
}

// Evidence is the normalized outcome of one outbound call: either an HTTP
// response descriptor or a transport failure, never both.
type Evidence struct {
	StatusCode  int
	ContentType string
	Body        []byte
	FinalURL    string
	RetryAfter  string
	Failure     string
}

// Failed reports whether the call never produced an HTTP response.
func (e *Evidence) Failed() bool {
	return e == nil || e.Failure != ""
}

// IsJSON reports whether the response declared a JSON content type.
func (e *Evidence) IsJSON() bool {
	if e.Failed() {
		return false
	}
	return strings.Contains(strings.ToLower(e.ContentType), "application/json")
}

// DecodeJSON unmarshals the response body.
func (e *Evidence) DecodeJSON(v any) error {
	if e.Failed() {
		return errors.New("no response body: " + e.Failure)
	}
	return json.Unmarshal(e.Body, v)
}

// Fetcher issues one outbound HTTP request per call. No retries; transport
// failures are returned as evidence values, never as errors.
type Fetcher struct {
	Client  *http.Client
	Headers Headers
	Timeout time.Duration
}

// New builds a Fetcher with the supplied defaults.
func New(headers Headers, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		Client:  &http.Client{},
		Headers: headers,
		Timeout: timeout,
	}
}

// Do performs the request and normalizes the outcome into Evidence.
func (f *Fetcher) Do(ctx context.Context, req Request) *Evidence {
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = f.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return &Evidence{Failure: FailureNetwork}
	}

	f.applyHeaders(httpReq, req.Header)

	resp, err := f.client(req.Redirects).Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Evidence{Failure: FailureTimeout}
		}
		return &Evidence{Failure: FailureNetwork}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Evidence{Failure: FailureTimeout}
		}
		return &Evidence{Failure: FailureNetwork}
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Evidence{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		FinalURL:    finalURL,
		RetryAfter:  resp.Header.Get("Retry-After"),
	}
}

func (f *Fetcher) applyHeaders(req *http.Request, overrides http.Header) {
	defaults := f.Headers
	if defaults.UserAgent != "" {
		req.Header.Set("User-Agent", defaults.UserAgent)
	}
	if defaults.Accept != "" {
		req.Header.Set("Accept", defaults.Accept)
	}
	if defaults.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", defaults.AcceptLanguage)
	}

	for key, values := range overrides {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
}

// client derives a per-call client so the redirect policy is configurable
// per request without mutating the shared base client.
func (f *Fetcher) client(policy RedirectPolicy) *http.Client {
	base := f.Client
	if base == nil {
		base = http.DefaultClient
	}

	derived := &http.Client{
		Transport: base.Transport,
		Jar:       base.Jar,
	}
	if policy == ManualRedirects {
		derived.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return derived
}
