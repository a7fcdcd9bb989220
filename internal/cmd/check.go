package cmd

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handlelens/handlelens/internal/config"
	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/observability"
	"github.com/handlelens/handlelens/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check <username>",
	Short: "Check username availability",
	Long:  "Check if a username is available across the supported platforms",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSlice("platforms", nil, "Platforms to check (x, instagram, tiktok, roblox, discord)")
	checkCmd.Flags().String("profile", "", "Use a named platform profile")
	checkCmd.Flags().String("output", "table", "Output format: table, json, markdown")
}

func runCheck(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])
	if err := validateUsername(username); err != nil {
		return err
	}

	platforms, err := cmd.Flags().GetStringSlice("platforms")
	if err != nil {
		return err
	}
	profileName, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	targets, err := resolvePlatforms(cfg, profileName, platforms)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("at least one platform is required")
	}

	startedAt := time.Now()
	dispatcher := buildDispatcher(cfg)

	result, err := dispatcher.Check(cmd.Context(), username, targets)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format)
	rendered, err := formatter.FormatQuery(result)
	if err != nil {
		return err
	}
	if rendered != "" {
		fmt.Println(rendered)
	}

	if format != output.FormatJSON {
		logThroughput(len(result.Results), startedAt)
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < 2 || len(username) > 32 {
		return errors.New("username must be 2-32 characters")
	}

	matched, err := regexp.MatchString(`^[A-Za-z0-9._]+$`, username)
	if err != nil {
		return fmt.Errorf("username validation failed: %w", err)
	}
	if !matched {
		return errors.New("username must be alphanumeric with optional dots and underscores")
	}

	return nil
}

// resolvePlatforms merges the --profile and --platforms flags. An explicit
// platform list wins; a profile name is resolved against the user profiles
// file first, then the built-ins.
func resolvePlatforms(cfg *config.Config, profileName string, platforms []string) ([]string, error) {
	if len(platforms) > 0 {
		return normalizeList(platforms), nil
	}

	name := strings.TrimSpace(profileName)
	if name == "" {
		name = "all"
	}

	var userProfiles []core.Profile
	if cfg != nil && cfg.Profiles.Path != "" {
		loaded, err := core.LoadProfilesFile(cfg.Profiles.Path)
		if err != nil {
			return nil, err
		}
		userProfiles = loaded
	}

	profile, ok := core.ResolveProfile(name, userProfiles)
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return normalizeList(profile.Platforms), nil
}

func normalizeList(values []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			item := strings.ToLower(strings.TrimSpace(part))
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func logThroughput(count int, startedAt time.Time) {
	if count <= 0 {
		return
	}
	elapsed := time.Since(startedAt)
	if elapsed <= 0 {
		return
	}
	rate := float64(count) / elapsed.Seconds()
	observability.CLILogger.Info(
		"Check throughput",
		zap.Int("checks", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}
