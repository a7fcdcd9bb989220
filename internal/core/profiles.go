package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a named set of platforms to check.
type Profile struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Platforms   []string `json:"platforms" yaml:"platforms"`
}

// BuiltInProfiles provides default profiles bundled with handlelens.
var BuiltInProfiles = []Profile{
	{
		Name:        "all",
		Description: "Every supported platform",
		Platforms:   []string{"x", "instagram", "tiktok", "roblox", "discord"},
	},
	{
		Name:        "social",
		Description: "Mainstream social platforms",
		Platforms:   []string{"x", "instagram", "tiktok"},
	},
	{
		Name:        "gaming",
		Description: "Gaming-adjacent platforms",
		Platforms:   []string{"roblox", "discord"},
	},
}

// FindBuiltInProfile looks up a built-in profile by name.
func FindBuiltInProfile(name string) (*Profile, bool) {
	needle := strings.TrimSpace(strings.ToLower(name))
	if needle == "" {
		return nil, false
	}

	for _, profile := range BuiltInProfiles {
		if strings.EqualFold(profile.Name, needle) {
			copied := profile
			return &copied, true
		}
	}

	return nil, false
}

// LoadProfilesFile reads user-defined profiles from a YAML file. User
// profiles shadow built-ins with the same name at lookup time.
func LoadProfilesFile(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}

	profiles := make([]Profile, 0, len(doc.Profiles))
	for _, profile := range doc.Profiles {
		if strings.TrimSpace(profile.Name) == "" || len(profile.Platforms) == 0 {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// ResolveProfile finds a profile among user-defined profiles first, then
// built-ins.
func ResolveProfile(name string, userProfiles []Profile) (*Profile, bool) {
	needle := strings.TrimSpace(strings.ToLower(name))
	if needle == "" {
		return nil, false
	}

	for _, profile := range userProfiles {
		if strings.EqualFold(profile.Name, needle) {
			copied := profile
			return &copied, true
		}
	}

	return FindBuiltInProfile(needle)
}
