package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/checker"
)

// MaxPlatformsPerQuery is the default cap on the fan-out of a single
// query after normalization and deduplication.
const MaxPlatformsPerQuery = 10

// Dispatcher fans a single username out across the registered platform
// checkers and collects one verdict per distinct platform.
type Dispatcher struct {
	Checkers map[core.PlatformID]checker.Checker

	// MaxPlatforms overrides MaxPlatformsPerQuery when positive.
	MaxPlatforms int

	Clock func() time.Time
}

// Check runs the username against every requested platform concurrently.
// Platform names are lowercased, deduplicated, and capped. Unrecognized
// names still get a verdict: unknown, with no outbound call. Results come
// back in the order the surviving platforms were requested.
func (d *Dispatcher) Check(ctx context.Context, username string, platforms []string) (*core.QueryResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(username)
	if value == "" {
		return nil, fmt.Errorf("username is required")
	}

	targets := d.resolveTargets(platforms)

	verdicts := make([]*core.Verdict, len(targets))
	var wg sync.WaitGroup
	for i, platform := range targets {
		wg.Add(1)
		go func(idx int, id core.PlatformID) {
			defer wg.Done()
			verdicts[idx] = d.runChecker(ctx, id, value)
		}(i, platform)
	}
	wg.Wait()

	return core.Summarize(value, verdicts, d.now()), nil
}

// runChecker executes one platform branch. A panicking or erroring
// checker degrades to an unknown verdict so one bad branch never sinks
// the rest of the query.
func (d *Dispatcher) runChecker(ctx context.Context, platform core.PlatformID, username string) (verdict *core.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = d.fallbackVerdict(platform, username, "checker_panic")
		}
	}()

	if !platform.IsKnown() {
		return d.fallbackVerdict(platform, username, "unrecognized_platform")
	}

	c := d.checkerFor(platform)
	if c == nil {
		return d.fallbackVerdict(platform, username, "checker_not_configured")
	}
	if !c.SupportsName(username) {
		return d.fallbackVerdict(platform, username, "unsupported_name")
	}

	result, err := c.Check(ctx, username)
	if err != nil || result == nil {
		return d.fallbackVerdict(platform, username, "checker_error")
	}
	return result
}

// resolveTargets normalizes, deduplicates, and caps the platform list in
// first-seen request order. Unrecognized names survive; they resolve to
// unknown verdicts later.
func (d *Dispatcher) resolveTargets(platforms []string) []core.PlatformID {
	limit := MaxPlatformsPerQuery
	if d != nil && d.MaxPlatforms > 0 {
		limit = d.MaxPlatforms
	}

	seen := make(map[core.PlatformID]bool, len(platforms))
	targets := make([]core.PlatformID, 0, len(platforms))
	for _, raw := range platforms {
		id := core.PlatformID(strings.ToLower(strings.TrimSpace(raw)))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		targets = append(targets, id)
		if len(targets) == limit {
			break
		}
	}
	return targets
}

func (d *Dispatcher) checkerFor(platform core.PlatformID) checker.Checker {
	if d == nil || d.Checkers == nil {
		return nil
	}
	return d.Checkers[platform]
}

func (d *Dispatcher) fallbackVerdict(platform core.PlatformID, username string, reason string) *core.Verdict {
	now := d.now()
	return &core.Verdict{
		Platform: platform,
		Username: username,
		Status:   core.StatusUnknown,
		Reason:   string(platform) + "_" + reason,
		Provenance: core.Provenance{
			RequestedAt: now,
			ResolvedAt:  now,
			Source:      "dispatcher",
		},
	}
}

func (d *Dispatcher) now() time.Time {
	if d != nil && d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}
