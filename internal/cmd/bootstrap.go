package cmd

import (
	"time"

	"github.com/handlelens/handlelens/internal/config"
	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/checker"
	"github.com/handlelens/handlelens/internal/core/engine"
	"github.com/handlelens/handlelens/internal/core/fetch"
)

// buildDispatcher wires the fetcher and the per-platform checkers from
// configuration. Both the CLI check command and the server use it.
func buildDispatcher(cfg *config.Config) *engine.Dispatcher {
	var (
		timeout        time.Duration
		userAgent      string
		acceptLanguage string
		checkers       config.CheckersConfig
	)
	if cfg != nil {
		timeout = cfg.Fetch.Timeout
		userAgent = cfg.Fetch.UserAgent
		acceptLanguage = cfg.Fetch.AcceptLanguage
		checkers = cfg.Checkers
	}

	headers := fetch.DefaultHeaders()
	if userAgent != "" {
		headers.UserAgent = userAgent
	}
	if acceptLanguage != "" {
		headers.AcceptLanguage = acceptLanguage
	}

	fetcher := fetch.New(headers, timeout)
	toolVersion := versionInfo.Version

	return &engine.Dispatcher{
		Checkers: map[core.PlatformID]checker.Checker{
			core.PlatformX: &checker.XChecker{
				Fetcher:     fetcher,
				BaseURL:     checkers.X.BaseURL,
				ToolVersion: toolVersion,
			},
			core.PlatformInstagram: &checker.InstagramChecker{
				Fetcher:     fetcher,
				APIBaseURL:  checkers.Instagram.APIBaseURL,
				WebBaseURL:  checkers.Instagram.WebBaseURL,
				PageRules:   buildBodyRules(checkers.Instagram.PageRules),
				ToolVersion: toolVersion,
			},
			core.PlatformTikTok: &checker.TikTokChecker{
				Fetcher:      fetcher,
				OEmbedURL:    checkers.TikTok.OEmbedURL,
				WebBaseURL:   checkers.TikTok.WebBaseURL,
				PageRules:    buildBodyRules(checkers.TikTok.PageRules),
				MinBodyBytes: checkers.TikTok.MinBodyBytes,
				ToolVersion:  toolVersion,
			},
			core.PlatformRoblox: &checker.RobloxChecker{
				Fetcher:     fetcher,
				BaseURL:     checkers.Roblox.BaseURL,
				ToolVersion: toolVersion,
			},
			core.PlatformDiscord: &checker.DiscordChecker{
				ToolVersion: toolVersion,
			},
		},
		MaxPlatforms: checkers.MaxPlatforms,
	}
}

// buildBodyRules converts configured page rules into checker rules.
// Unparseable statuses degrade to unknown rather than dropping the rule.
func buildBodyRules(rules []config.BodyRuleConfig) []checker.BodyRule {
	if len(rules) == 0 {
		return nil
	}

	built := make([]checker.BodyRule, 0, len(rules))
	for _, rule := range rules {
		if len(rule.Patterns) == 0 {
			continue
		}

		status := core.StatusUnknown
		switch rule.Status {
		case string(core.StatusAvailable):
			status = core.StatusAvailable
		case string(core.StatusTaken):
			status = core.StatusTaken
		}

		built = append(built, checker.BodyRule{
			Patterns: rule.Patterns,
			Status:   status,
			Reason:   rule.Reason,
		})
	}
	return built
}
