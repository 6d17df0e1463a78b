package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".adaudit.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration shape.
//
// The file selects a named threshold profile and may override individual
// thresholds on top of it. Pointer fields distinguish "not set" from an
// explicit zero.
type File struct {
	// Profile names the base profile: "standard" (default) or "lenient".
	Profile string `yaml:"profile"`

	// Overrides are applied on top of the selected profile.
	Overrides Overrides `yaml:"overrides"`
}

// Overrides holds per-threshold overrides from the config file.
type Overrides struct {
	MinWordCount      *int     `yaml:"min_word_count"`
	MaxAdUnits        *int     `yaml:"max_ad_units"`
	ModerationCutoff  *float64 `yaml:"moderation_cutoff"`
	LowPostThreshold  *int     `yaml:"low_post_threshold"`
	GoodPostThreshold *int     `yaml:"good_post_threshold"`
	MaxSuggestions    *int     `yaml:"max_suggestions"`
}

// LoadConfigFile reads a YAML config file and resolves it to a Profile.
// If the file does not exist it returns ErrConfigNotFound; callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	profile, err := ProfileByName(cf.Profile)
	if err != nil {
		return nil, err
	}
	applyOverrides(profile, cf.Overrides)
	return profile, nil
}

// applyOverrides copies explicitly-set override values onto the profile.
func applyOverrides(p *Profile, o Overrides) {
	if o.MinWordCount != nil {
		p.MinWordCount = *o.MinWordCount
	}
	if o.MaxAdUnits != nil {
		p.MaxAdUnits = *o.MaxAdUnits
	}
	if o.ModerationCutoff != nil {
		p.ModerationCutoff = *o.ModerationCutoff
	}
	if o.LowPostThreshold != nil {
		p.LowPostThreshold = *o.LowPostThreshold
	}
	if o.GoodPostThreshold != nil {
		p.GoodPostThreshold = *o.GoodPostThreshold
	}
	if o.MaxSuggestions != nil {
		p.MaxSuggestions = *o.MaxSuggestions
	}
}

// FindConfigFile searches for the configuration file in order:
//  1. the explicit path, if given
//  2. .adaudit.yaml in the current directory
//  3. the XDG config directory
//
// Returns the path if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
