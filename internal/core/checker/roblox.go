package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/fetch"
)

const robloxSource = "roblox"

// RobloxChecker resolves usernames through the public username-lookup API.
// It is strict: only an exact case-insensitive name match counts as taken,
// and every hard failure or odd payload shape stays unknown.
type RobloxChecker struct {
	Fetcher     *fetch.Fetcher
	BaseURL     string
	ToolVersion string
	Clock       func() time.Time
}

type robloxLookupRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type robloxLookupResponse struct {
	Data   json.RawMessage   `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

type robloxUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Check performs a Roblox username availability check.
func (c *RobloxChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	if c == nil {
		return nil, errors.New("roblox checker is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(username)
	if value == "" {
		return nil, errors.New("username is required")
	}

	requestedAt := c.now()

	payload, err := json.Marshal(robloxLookupRequest{
		Usernames:          []string{value},
		ExcludeBannedUsers: false,
	})
	if err != nil {
		return nil, err
	}

	ev := c.fetcher().Do(ctx, fetch.Request{
		Method: http.MethodPost,
		URL:    c.baseURL() + "/v1/usernames/users",
		Header: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
		Body:      payload,
		Redirects: fetch.FollowRedirects,
	})

	verdict := ClassifyRoblox(value, ev)
	verdict.Provenance = core.Provenance{
		CheckID:     uuid.New().String(),
		RequestedAt: requestedAt,
		ResolvedAt:  c.now(),
		Source:      robloxSource,
		ToolVersion: c.ToolVersion,
	}
	return verdict, nil
}

// ClassifyRoblox maps lookup evidence onto a verdict. Pure: no I/O.
func ClassifyRoblox(username string, ev *fetch.Evidence) *core.Verdict {
	verdict := &core.Verdict{
		Platform: core.PlatformRoblox,
		Username: username,
		Status:   core.StatusUnknown,
	}

	if ev.Failed() {
		verdict.Reason = "roblox_network_error"
		return verdict
	}

	verdict.StatusCode = ev.StatusCode
	if ev.StatusCode < 200 || ev.StatusCode > 299 {
		verdict.Reason = fmt.Sprintf("roblox_http_%d", ev.StatusCode)
		if ev.StatusCode == http.StatusTooManyRequests {
			_, verdict.ExtraData = retryAfterExtra(ev)
		}
		return verdict
	}

	var parsed robloxLookupResponse
	if err := ev.DecodeJSON(&parsed); err != nil {
		verdict.Reason = "roblox_invalid_shape"
		return verdict
	}

	if len(parsed.Errors) > 0 {
		verdict.Reason = "roblox_errors"
		return verdict
	}

	var users []robloxUser
	if parsed.Data == nil || json.Unmarshal(parsed.Data, &users) != nil {
		verdict.Reason = "roblox_invalid_shape"
		return verdict
	}

	for _, user := range users {
		if user.ID <= 0 || user.Name == "" {
			continue
		}
		if !strings.EqualFold(user.Name, username) {
			continue
		}

		verdict.Status = core.StatusTaken
		verdict.URL = fmt.Sprintf("https://www.roblox.com/users/%d/profile", user.ID)
		verdict.ExtraData = map[string]any{
			"user_id":  user.ID,
			"username": user.Name,
		}
		if user.DisplayName != "" {
			verdict.ExtraData["display_name"] = user.DisplayName
		}
		return verdict
	}

	verdict.Status = core.StatusAvailable
	return verdict
}

// Platform returns the checker platform.
func (c *RobloxChecker) Platform() core.PlatformID {
	return core.PlatformRoblox
}

// SupportsName validates Roblox username constraints.
func (c *RobloxChecker) SupportsName(username string) bool {
	value := strings.TrimSpace(username)
	if len(value) < 3 || len(value) > 20 {
		return false
	}
	matched, _ := regexp.MatchString(`^[A-Za-z0-9_]+$`, value)
	return matched
}

func (c *RobloxChecker) baseURL() string {
	if c != nil && c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return "https://users.roblox.com"
}

func (c *RobloxChecker) fetcher() *fetch.Fetcher {
	if c != nil && c.Fetcher != nil {
		return c.Fetcher
	}
	return fetch.New(fetch.DefaultHeaders(), 0)
}

func (c *RobloxChecker) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
