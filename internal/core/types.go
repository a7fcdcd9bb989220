package core

import "time"

// PlatformID identifies a supported platform.
type PlatformID string

const (
	PlatformX         PlatformID = "x"
	PlatformInstagram PlatformID = "instagram"
	PlatformTikTok    PlatformID = "tiktok"
	PlatformRoblox    PlatformID = "roblox"
	PlatformDiscord   PlatformID = "discord"
)

// KnownPlatforms lists every platform with a dedicated checker, in display order.
var KnownPlatforms = []PlatformID{
	PlatformX,
	PlatformInstagram,
	PlatformTikTok,
	PlatformRoblox,
	PlatformDiscord,
}

// IsKnown reports whether the platform has a dedicated checker.
func (p PlatformID) IsKnown() bool {
	for _, known := range KnownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// Status represents the availability state for a handle on one platform.
type Status string

const (
	// StatusUnknown is the default and the safe fallback: transport
	// failures, bot walls, rate limits, and malformed payloads all land
	// here. Taken and available require unambiguous positive evidence.
	StatusUnknown   Status = "unknown"
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// Provenance captures metadata about how a verdict was resolved.
type Provenance struct {
	CheckID     string    `json:"check_id"`
	RequestedAt time.Time `json:"requested_at"`
	ResolvedAt  time.Time `json:"resolved_at"`
	Source      string    `json:"source"`
	ToolVersion string    `json:"tool_version"`
}

// Verdict reports the availability of one username on one platform.
type Verdict struct {
	Platform   PlatformID     `json:"platform"`
	Username   string         `json:"username"`
	Status     Status         `json:"status"`
	URL        string         `json:"url,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	ExtraData  map[string]any `json:"extra_data,omitempty"`
	Provenance Provenance     `json:"provenance"`
}

// QueryResult captures the verdicts for a single username query.
type QueryResult struct {
	Username    string     `json:"username"`
	Results     []*Verdict `json:"results"`
	Available   int        `json:"available"`
	Taken       int        `json:"taken"`
	Unknown     int        `json:"unknown"`
	CompletedAt time.Time  `json:"completed_at"`
}

// Summarize builds a QueryResult with per-status counts.
func Summarize(username string, results []*Verdict, completedAt time.Time) *QueryResult {
	summary := &QueryResult{
		Username:    username,
		Results:     results,
		CompletedAt: completedAt,
	}
	for _, result := range results {
		if result == nil {
			continue
		}
		switch result.Status {
		case StatusAvailable:
			summary.Available++
		case StatusTaken:
			summary.Taken++
		default:
			summary.Unknown++
		}
	}
	return summary
}
