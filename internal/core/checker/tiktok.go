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

const tiktokSource = "tiktok"

// defaultTikTokMinBodyBytes guards against interstitial shells. TikTok
// serves a near-empty bot-check document from the same URL as a real
// profile, so a tiny 200 body is not evidence either way.
const defaultTikTokMinBodyBytes = 2048

// TikTokChecker runs a two-stage check: the oEmbed endpoint first, then
// the profile page itself as fallback.
type TikTokChecker struct {
	Fetcher      *fetch.Fetcher
	OEmbedURL    string
	WebBaseURL   string
	PageRules    []BodyRule
	MinBodyBytes int
	ToolVersion  string
	Clock        func() time.Time
}

type tiktokOEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
}

// DefaultTikTokPageRules is the stock phrase rule list for the HTML
// fallback. Order matters: the first matching rule wins.
func DefaultTikTokPageRules() []BodyRule {
	return []BodyRule{
		{
			Patterns: []string{
				"couldn't find this account",
				"couldn&#39;t find this account",
				"cette page n'est pas disponible",
			},
			Status: core.StatusAvailable,
			Reason: "tiktok_not_found_page",
		},
		{
			Patterns: []string{
				"please verify to continue",
				"captcha",
				"access denied",
			},
			Status: core.StatusUnknown,
			Reason: "tiktok_bot_wall",
		},
	}
}

// Check performs a TikTok username availability check.
func (c *TikTokChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	if c == nil {
		return nil, errors.New("tiktok checker is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if value == "" {
		return nil, errors.New("username is required")
	}

	requestedAt := c.now()

	profileURL := "https://www.tiktok.com/@" + url.PathEscape(value)
	oembedEv := c.fetcher().Do(ctx, fetch.Request{
		URL: fmt.Sprintf("%s?url=%s", c.oembedURL(), url.QueryEscape(profileURL)),
		Header: http.Header{
			"Accept": []string{"application/json"},
		},
		Redirects: fetch.FollowRedirects,
	})

	verdict, conclusive := ClassifyTikTokOEmbed(value, oembedEv)
	if !conclusive {
		pageEv := c.fetcher().Do(ctx, fetch.Request{
			URL:       c.webBaseURL() + "/@" + url.PathEscape(value),
			Redirects: fetch.FollowRedirects,
		})
		verdict = ClassifyTikTokPage(value, pageEv, c.pageRules(), c.minBodyBytes())
	}

	verdict.Provenance = core.Provenance{
		CheckID:     uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  c.now(),
		Source:      tiktokSource,
		ToolVersion: c.ToolVersion,
	}
	return verdict, nil
}

// ClassifyTikTokOEmbed interprets the stage-1 oEmbed endpoint. The
// endpoint answers 400 or 404 for accounts that do not exist and a JSON
// document naming the author for ones that do; anything else defers to
// the profile page.
func ClassifyTikTokOEmbed(username string, ev *fetch.Evidence) (*core.Verdict, bool) {
	verdict := &core.Verdict{
		Platform: core.PlatformTikTok,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		return verdict, false
	}

	verdict.StatusCode = ev.StatusCode
	switch {
	case ev.StatusCode == http.StatusBadRequest || ev.StatusCode == http.StatusNotFound:
		verdict.Status = core.StatusAvailable
		return verdict, true
	case ev.StatusCode != http.StatusOK || !ev.IsJSON():
		return verdict, false
	}

	var parsed tiktokOEmbedResponse
	if err := ev.DecodeJSON(&parsed); err != nil {
		return verdict, false
	}
	if parsed.AuthorName == "" && parsed.Title == "" {
		return verdict, false
	}

	verdict.Status = core.StatusTaken
	verdict.URL = "https://www.tiktok.com/@" + url.PathEscape(username)
	verdict.ExtraData = map[string]any{}
	if parsed.AuthorName != "" {
		verdict.ExtraData["author_name"] = parsed.AuthorName
	}
	if parsed.AuthorURL != "" {
		verdict.ExtraData["author_url"] = parsed.AuthorURL
	}
	return verdict, true
}

// ClassifyTikTokPage interprets the stage-2 profile page. Pure.
func ClassifyTikTokPage(username string, ev *fetch.Evidence, rules []BodyRule, minBody int) *core.Verdict {
	verdict := &core.Verdict{
		Platform: core.PlatformTikTok,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		verdict.Reason = "tiktok_" + ev.Failure
		return verdict
	}

	verdict.StatusCode = ev.StatusCode
	switch {
	case ev.StatusCode == http.StatusNotFound:
		verdict.Status = core.StatusAvailable
		return verdict
	case ev.StatusCode == http.StatusForbidden || ev.StatusCode == http.StatusTooManyRequests:
		verdict.Reason = fmt.Sprintf("tiktok_http_%d", ev.StatusCode)
		if ev.StatusCode == http.StatusTooManyRequests {
			_, verdict.ExtraData = retryAfterExtra(ev)
		}
		return verdict
	case ev.StatusCode < 200 || ev.StatusCode > 299:
		verdict.Reason = fmt.Sprintf("tiktok_http_%d", ev.StatusCode)
		return verdict
	}

	if status, reason, ok := evaluateBodyRules(string(ev.Body), rules); ok {
		verdict.Status = status
		verdict.Reason = reason
		return verdict
	}

	if minBody > 0 && len(ev.Body) < minBody {
		verdict.Reason = "tiktok_thin_body"
		return verdict
	}

	verdict.Status = core.StatusTaken
	verdict.URL = "https://www.tiktok.com/@" + url.PathEscape(username)
	return verdict
}

// Platform returns the checker platform.
func (c *TikTokChecker) Platform() core.PlatformID {
	return core.PlatformTikTok
}

// SupportsName validates TikTok username constraints.
func (c *TikTokChecker) SupportsName(username string) bool {
	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if len(value) < 2 || len(value) > 24 {
		return false
	}
	matched, _ := regexp.MatchString(`^[A-Za-z0-9._]+$`, value)
	return matched
}

func (c *TikTokChecker) oembedURL() string {
	if c != nil && c.OEmbedURL != "" {
		return strings.TrimSuffix(c.OEmbedURL, "/")
	}
	return "https://www.tiktok.com/oembed"
}

func (c *TikTokChecker) webBaseURL() string {
	if c != nil && c.WebBaseURL != "" {
		return strings.TrimSuffix(c.WebBaseURL, "/")
	}
	return "https://www.tiktok.com"
}

func (c *TikTokChecker) pageRules() []BodyRule {
	if c != nil && len(c.PageRules) > 0 {
		return c.PageRules
	}
	return DefaultTikTokPageRules()
}

func (c *TikTokChecker) minBodyBytes() int {
	if c != nil && c.MinBodyBytes > 0 {
		return c.MinBodyBytes
	}
	return defaultTikTokMinBodyBytes
}

func (c *TikTokChecker) fetcher() *fetch.Fetcher {
	if c != nil && c.Fetcher != nil {
		return c.Fetcher
	}
	return fetch.New(fetch.DefaultHeaders(), 0)
}

func (c *TikTokChecker) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
