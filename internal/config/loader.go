// Package config provides centralized configuration management for
// HandleLens: built-in defaults, an optional YAML config file, and
// HANDLELENS_* environment variable overrides, merged in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "HANDLELENS"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Load reads configuration from defaults, the config file (when present),
// and the environment. Safe to call multiple times for reloads.
func Load(configFile string, runtimeOverrides ...map[string]any) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if path := DefaultConfigPath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(*os.PathError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	for _, overrides := range runtimeOverrides {
		for key, value := range overrides {
			v.Set(key, value)
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setConfig(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("fetch.timeout", "7s")
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.accept_language", "")

	v.SetDefault("checkers.x.base_url", "")
	v.SetDefault("checkers.instagram.api_base_url", "")
	v.SetDefault("checkers.instagram.web_base_url", "")
	v.SetDefault("checkers.tiktok.oembed_url", "")
	v.SetDefault("checkers.tiktok.web_base_url", "")
	v.SetDefault("checkers.tiktok.min_body_bytes", 0)
	v.SetDefault("checkers.roblox.base_url", "")
	v.SetDefault("checkers.max_platforms", 0)

	v.SetDefault("profiles.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "SIMPLE")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("health.enabled", true)

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.pprof_enabled", false)
}

// GetConfig returns the current application configuration.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "handlelens", "config.yaml")
}
