package checker

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handlelens/handlelens/internal/core"
)

const discordSource = "discord"

// DiscordChecker never answers available or taken. Discord exposes no
// anonymous lookup for usernames; the pomelo check lives behind an
// authenticated session, so the honest verdict is always unknown. The
// checker still exists so Discord shows up in results with a stable
// reason instead of silently disappearing from the platform list.
type DiscordChecker struct {
	ToolVersion string
	Clock       func() time.Time
}

// Check returns an unknown verdict without any outbound request.
func (c *DiscordChecker) Check(ctx context.Context, username string) (*core.Verdict, error) {
	if c == nil {
		return nil, errors.New("discord checker is not configured")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if value == "" {
		return nil, errors.New("username is required")
	}

	now := c.now()
	return &core.Verdict{
		Platform: core.PlatformDiscord,
		Username: value,
		Status:   core.StatusUnknown,
		Reason:   "discord_requires_auth",
		Provenance: core.Provenance{
			CheckID:     uuid.New().String(),
			RequestedAt: now,
			ResolvedAt:  now,
			Source:      discordSource,
			ToolVersion: c.ToolVersion,
		},
	}, nil
}

// Platform returns the checker platform.
func (c *DiscordChecker) Platform() core.PlatformID {
	return core.PlatformDiscord
}

// SupportsName validates Discord username constraints.
func (c *DiscordChecker) SupportsName(username string) bool {
	value := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if len(value) < 2 || len(value) > 32 {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-z0-9._]+$`, strings.ToLower(value))
	return matched
}

func (c *DiscordChecker) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
