package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
)

func TestDiscordCheckerAlwaysUnknown(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	checker := &DiscordChecker{
		ToolVersion: "1.2.3",
		Clock:       func() time.Time { return fixed },
	}

	verdict, err := checker.Check(context.Background(), "@someuser")
	require.NoError(t, err)
	require.Equal(t, core.PlatformDiscord, verdict.Platform)
	require.Equal(t, "someuser", verdict.Username)
	require.Equal(t, core.StatusUnknown, verdict.Status)
	require.Equal(t, "discord_requires_auth", verdict.Reason)
	require.Equal(t, fixed, verdict.Provenance.RequestedAt)
	require.Equal(t, "1.2.3", verdict.Provenance.ToolVersion)
	require.NotEmpty(t, verdict.Provenance.CheckID)
}

func TestDiscordCheckerHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := &DiscordChecker{}
	_, err := checker.Check(ctx, "someuser")
	require.Error(t, err)
}

func TestDiscordSupportsName(t *testing.T) {
	checker := &DiscordChecker{}

	require.True(t, checker.SupportsName("some.user_name"))
	require.True(t, checker.SupportsName("UPPER"))
	require.False(t, checker.SupportsName("a"))
	require.False(t, checker.SupportsName("bad-handle"))
}
