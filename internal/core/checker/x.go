package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/fetch"
)

const xSource = "x_syndication"

// XChecker resolves screen names through the public syndication JSON
// endpoint. Profile pages on x.com sit behind a JS wall, so the widget
// endpoint is the only signal that distinguishes "no such user" from
// "blocked" without authentication.
type XChecker struct {
	Fetcher     *fetch.Fetcher
	BaseURL     string
	ToolVersion string
	Clock       func() time.Time
}

type xSyndicationEntry struct {
	ScreenName string `json:"screen_name"`
	ID         string `json:"id"`
}

// Check performs an X screen-name availability check.
func (c *XChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	if c == nil {
		return nil, errors.New("x checker is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if value == "" {
		return nil, errors.New("username is required")
	}

	requestedAt := c.now()

	ev := c.fetcher().Do(ctx, fetch.Request{
		URL: fmt.Sprintf("%s/widgets/followbutton/info.json?screen_names=%s",
			c.baseURL(), url.QueryEscape(value)),
		Header: http.Header{
			"Accept": []string{"application/json"},
		},
		Redirects: fetch.FollowRedirects,
	})

	verdict := ClassifyX(value, ev)
	verdict.Provenance = core.Provenance{
		CheckID:     uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  c.now(),
		Source:      xSource,
		ToolVersion: c.ToolVersion,
	}
	return verdict, nil
}

// ClassifyX maps syndication evidence onto a verdict. Pure: no I/O.
func ClassifyX(username string, ev *fetch.Evidence) *core.Verdict {
	verdict := &core.Verdict{
		Platform: core.PlatformX,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		verdict.Reason = "x_" + ev.Failure
		return verdict
	}

	verdict.StatusCode = ev.StatusCode
	if ev.StatusCode != http.StatusOK {
		verdict.Reason = fmt.Sprintf("x_http_%d", ev.StatusCode)
		if ev.StatusCode == http.StatusTooManyRequests {
			_, verdict.ExtraData = retryAfterExtra(ev)
		}
		return verdict
	}

	var entries []xSyndicationEntry
	if err := ev.DecodeJSON(&entries); err != nil {
		verdict.Reason = "x_invalid_shape"
		return verdict
	}

	if len(entries) == 0 {
		verdict.Status = core.StatusAvailable
		return verdict
	}

	for _, entry := range entries {
		if entry.ScreenName == "" {
			continue
		}
		verdict.Status = core.StatusTaken
		verdict.URL = "https://x.com/" + url.PathEscape(entry.ScreenName)
		verdict.ExtraData = map[string]any{"screen_name": entry.ScreenName}
		if entry.ID != "" {
			verdict.ExtraData["user_id"] = entry.ID
		}
		return verdict
	}

	// Entries without a screen-name field are not positive evidence.
	verdict.Reason = "x_invalid_shape"
	return verdict
}

// Platform returns the checker platform.
func (c *XChecker) Platform() core.PlatformID {
	return core.PlatformX
}

// SupportsName validates X screen-name constraints.
func (c *XChecker) SupportsName(username string) bool {
	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if value == "" || len(value) > 15 {
		return false
	}
	matched, _ := regexp.MatchString(`^[A-Za-z0-9_]+$`, value)
	return matched
}

func (c *XChecker) baseURL() string {
	if c != nil && c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return "https://cdn.syndication.twimg.com"
}

func (c *XChecker) fetcher() *fetch.Fetcher {
	if c != nil && c.Fetcher != nil {
		return c.Fetcher
	}
	return fetch.New(fetch.DefaultHeaders(), 0)
}

func (c *XChecker) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
