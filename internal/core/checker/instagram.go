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

const instagramSource = "instagram"

// InstagramChecker runs a two-stage check: a JSON profile endpoint first,
// then the HTML profile page as fallback. Login and challenge walls are
// never read as taken or available.
type InstagramChecker struct {
	Fetcher     *fetch.Fetcher
	APIBaseURL  string
	WebBaseURL  string
	PageRules   []BodyRule
	ToolVersion string
	Clock       func() time.Time
}

type instagramProfileResponse struct {
	Data struct {
		User *struct {
			Username string `json:"username"`
			ID       string `json:"id"`
		} `json:"user"`
	} `json:"data"`
}

// DefaultInstagramPageRules is the stock phrase rule list for the HTML
// fallback. Order matters: the first matching rule wins.
func DefaultInstagramPageRules() []BodyRule {
	return []BodyRule{
		{
			Patterns: []string{
				"sorry, this page isn't available",
				"the link you followed may be broken",
				"page not found",
			},
			Status: core.StatusAvailable,
			Reason: "instagram_not_found_page",
		},
		{
			Patterns: []string{
				"/accounts/login/",
				"loginform",
				"login • instagram",
				"challenge_required",
			},
			Status: core.StatusUnknown,
			Reason: "instagram_login_wall",
		},
	}
}

// Check performs an Instagram username availability check.
func (c *InstagramChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	if c == nil {
		return nil, errors.New("instagram checker is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(username)
	if value == "" {
		return nil, errors.New("username is required")
	}

	requestedAt := c.now()

	profileEv := c.fetcher().Do(ctx, fetch.Request{
		URL: fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s",
			c.apiBaseURL(), url.QueryEscape(value)),
		Header: http.Header{
			"Accept":           []string{"application/json"},
			"X-Requested-With": []string{"XMLHttpRequest"},
		},
		Redirects: fetch.FollowRedirects,
	})

	verdict, conclusive := ClassifyInstagramProfile(value, profileEv)
	if !conclusive {
		pageEv := c.fetcher().Do(ctx, fetch.Request{
			URL:       c.webBaseURL() + "/" + url.PathEscape(value) + "/",
			Redirects: fetch.ManualRedirects,
		})
		verdict = ClassifyInstagramPage(value, pageEv, c.pageRules())
	}

	verdict.Provenance = core.Provenance{
		CheckID:     uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  c.now(),
		Source:      instagramSource,
		ToolVersion: c.ToolVersion,
	}
	return verdict, nil
}

// ClassifyInstagramProfile interprets the stage-1 JSON endpoint. It only
// ever concludes taken; everything else defers to the HTML fallback.
func ClassifyInstagramProfile(username string, ev *fetch.Evidence) (*core.Verdict, bool) {
	verdict := &core.Verdict{
		Platform: core.PlatformInstagram,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		return verdict, false
	}

	verdict.StatusCode = ev.StatusCode
	if ev.StatusCode != http.StatusOK || !ev.IsJSON() {
		return verdict, false
	}

	var parsed instagramProfileResponse
	if err := ev.DecodeJSON(&parsed); err != nil {
		return verdict, false
	}
	if parsed.Data.User == nil || parsed.Data.User.Username == "" {
		return verdict, false
	}

	verdict.Status = core.StatusTaken
	verdict.URL = "https://www.instagram.com/" + url.PathEscape(parsed.Data.User.Username) + "/"
	verdict.ExtraData = map[string]any{"username": parsed.Data.User.Username}
	if parsed.Data.User.ID != "" {
		verdict.ExtraData["user_id"] = parsed.Data.User.ID
	}
	return verdict, true
}

// ClassifyInstagramPage interprets the stage-2 HTML profile page. Pure.
func ClassifyInstagramPage(username string, ev *fetch.Evidence, rules []BodyRule) *core.Verdict {
	verdict := &core.Verdict{
		Platform: core.PlatformInstagram,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		verdict.Reason = "instagram_" + ev.Failure
		return verdict
	}

	verdict.StatusCode = ev.StatusCode
	switch {
	case ev.StatusCode == http.StatusNotFound:
		verdict.Status = core.StatusAvailable
		return verdict
	case isRedirect(ev.StatusCode):
		// Instagram redirects anonymous traffic to the login page for
		// both real and missing profiles, so a 3xx proves nothing.
		verdict.Reason = "instagram_login_wall"
		return verdict
	case ev.StatusCode < 200 || ev.StatusCode > 299:
		verdict.Reason = fmt.Sprintf("instagram_http_%d", ev.StatusCode)
		if ev.StatusCode == http.StatusTooManyRequests {
			_, verdict.ExtraData = retryAfterExtra(ev)
		}
		return verdict
	}

	if status, reason, ok := evaluateBodyRules(string(ev.Body), rules); ok {
		verdict.Status = status
		verdict.Reason = reason
		return verdict
	}

	// A renderable profile page with no not-found or login marker is
	// treated as an existing profile.
	verdict.Status = core.StatusTaken
	verdict.URL = "https://www.instagram.com/" + url.PathEscape(username) + "/"
	return verdict
}

// Platform returns the checker platform.
func (c *InstagramChecker) Platform() core.PlatformID {
	return core.PlatformInstagram
}

// SupportsName validates Instagram username constraints.
func (c *InstagramChecker) SupportsName(username string) bool {
	value := strings.TrimSpace(username)
	if value == "" || len(value) > 30 {
		return false
	}
	matched, _ := regexp.MatchString(`^[A-Za-z0-9._]+$`, value)
	return matched
}

func (c *InstagramChecker) apiBaseURL() string {
	if c != nil && c.APIBaseURL != "" {
		return strings.TrimSuffix(c.APIBaseURL, "/")
	}
	return "https://i.instagram.com"
}

func (c *InstagramChecker) webBaseURL() string {
	if c != nil && c.WebBaseURL != "" {
		return strings.TrimSuffix(c.WebBaseURL, "/")
	}
	return "https://www.instagram.com"
}

func (c *InstagramChecker) pageRules() []BodyRule {
	if c != nil && len(c.PageRules) > 0 {
		return c.PageRules
	}
	return DefaultInstagramPageRules()
}

func (c *InstagramChecker) fetcher() *fetch.Fetcher {
	if c != nil && c.Fetcher != nil {
		return c.Fetcher
	}
	return fetch.New(fetch.DefaultHeaders(), 0)
}

func (c *InstagramChecker) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
