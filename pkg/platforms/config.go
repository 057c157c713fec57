// Package platforms resolves which review destination buttons the positive
// funnel branch renders.
package platforms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlatformInfo is one entry of the platform lookup table: the branding and
// destination used when a legacy platform is enabled by name.
type PlatformInfo struct {
	Logo string `yaml:"logo" json:"logo"`
	URL  string `yaml:"url"  json:"url"`
}

// Config is the legacy fallback configuration: which platform names are
// enabled and how each name maps to a logo and URL.
type Config struct {
	EnabledPlatforms []string                `yaml:"enabled_platforms"`
	Platforms        map[string]PlatformInfo `yaml:"platforms"`
}

// LoadConfig loads the platform configuration from a YAML file.
func LoadConfig(filepath string) (Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if config.Platforms == nil {
		config.Platforms = map[string]PlatformInfo{}
	}

	return config, nil
}

// LoadConfigOrDefault attempts to load the platform config from a file,
// falling back to an empty configuration if the file doesn't exist.
func LoadConfigOrDefault(filepath string) Config {
	config, err := LoadConfig(filepath)
	if err != nil {
		return Config{
			EnabledPlatforms: []string{},
			Platforms:        map[string]PlatformInfo{},
		}
	}

	return config
}
