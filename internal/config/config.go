package config

import "time"

// Config is the complete application configuration.
// Layer 1: built-in defaults. Layer 2: user config file (YAML).
// Layer 3: HANDLELENS_* environment variables and runtime overrides.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Checkers CheckersConfig `mapstructure:"checkers"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
	Debug    DebugConfig    `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// FetchConfig contains outbound evidence-call configuration shared by all
// platform checkers.
type FetchConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language"`
}

// CheckersConfig contains per-platform checker configuration. Base URLs
// are overridable so tests and proxies can redirect outbound traffic.
type CheckersConfig struct {
	X         XCheckerConfig         `mapstructure:"x"`
	Instagram InstagramCheckerConfig `mapstructure:"instagram"`
	TikTok    TikTokCheckerConfig    `mapstructure:"tiktok"`
	Roblox    RobloxCheckerConfig    `mapstructure:"roblox"`

	// MaxPlatforms caps the distinct platforms a single query fans out
	// to. Zero keeps the built-in default.
	MaxPlatforms int `mapstructure:"max_platforms"`
}

// XCheckerConfig configures the X syndication checker.
type XCheckerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// InstagramCheckerConfig configures the two-stage Instagram checker.
type InstagramCheckerConfig struct {
	APIBaseURL string           `mapstructure:"api_base_url"`
	WebBaseURL string           `mapstructure:"web_base_url"`
	PageRules  []BodyRuleConfig `mapstructure:"page_rules"`
}

// TikTokCheckerConfig configures the two-stage TikTok checker.
type TikTokCheckerConfig struct {
	OEmbedURL    string           `mapstructure:"oembed_url"`
	WebBaseURL   string           `mapstructure:"web_base_url"`
	MinBodyBytes int              `mapstructure:"min_body_bytes"`
	PageRules    []BodyRuleConfig `mapstructure:"page_rules"`
}

// BodyRuleConfig is one HTML phrase rule: the first rule whose pattern
// matches the page body decides the status. Replaces the checker's
// built-in rule list entirely when set.
type BodyRuleConfig struct {
	Patterns []string `mapstructure:"patterns"`
	Status   string   `mapstructure:"status"`
	Reason   string   `mapstructure:"reason"`
}

// RobloxCheckerConfig configures the Roblox lookup checker.
type RobloxCheckerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ProfilesConfig points at an optional user profiles file.
type ProfilesConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration.
// Profiles follow the gofulmen progressive logging model:
// SIMPLE for CLI runs, STRUCTURED for the HTTP server.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity: SIMPLE or STRUCTURED.
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated exporter port; metrics are also proxied at
	// /metrics on the main HTTP port.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration.
type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// PprofEnabled exposes pprof endpoints. Development only.
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
