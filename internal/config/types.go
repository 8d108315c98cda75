package config

import (
	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
)

// Defaults applied to optional fields.
const (
	DefaultOutput    = "dist"
	DefaultParallel  = 4
	DefaultLogLevel  = "info"
	DefaultSnapshots = ".sectionforge/snapshots.db"
)

// Config represents a sectionforge.yaml project file.
type Config struct {
	Version   string   `yaml:"version" validate:"required,oneof=1"`
	Name      string   `yaml:"name" validate:"required,min=1,max=100"`
	Document  string   `yaml:"document" validate:"required"`
	Content   string   `yaml:"content,omitempty"`
	Output    string   `yaml:"output,omitempty"`
	Templates string   `yaml:"templates,omitempty"`
	Tier      string   `yaml:"tier,omitempty" validate:"omitempty,oneof=free premium"`
	Gate      Gate     `yaml:"gate,omitempty"`
	Settings  Settings `yaml:"settings,omitempty"`
	Snapshots string   `yaml:"snapshots,omitempty"`
}

// Gate lists section ids by membership and the policy for gated sections.
type Gate struct {
	Premium []string `yaml:"premium,omitempty" validate:"omitempty,dive,section_id"`
	Free    []string `yaml:"free,omitempty" validate:"omitempty,dive,section_id"`
	Policy  string   `yaml:"policy,omitempty" validate:"omitempty,oneof=omit placeholder"`
}

// Settings holds global execution parameters.
type Settings struct {
	Parallel int    `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=32"`
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// FeatureGate builds the gate described by the gate block.
func (c *Config) FeatureGate() (*gate.FeatureGate, error) {
	policy, err := gate.ParsePolicy(c.Gate.Policy)
	if err != nil {
		return nil, err
	}
	return gate.NewFeatureGate(c.Gate.Premium, c.Gate.Free, policy)
}

// TierValue returns the configured tier; an unset tier is free.
func (c *Config) TierValue() gate.Tier {
	tier, err := gate.ParseTier(c.Tier)
	if err != nil {
		return gate.TierFree
	}
	return tier
}

// ContentSource returns the content fixture source, or nil when none is set.
func (c *Config) ContentSource() content.Source {
	if c.Content == "" {
		return nil
	}
	return content.File{Path: c.Content}
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Tier == "" {
		c.Tier = string(gate.TierFree)
	}
	if c.Gate.Policy == "" {
		c.Gate.Policy = string(gate.PolicyPlaceholder)
	}
	if c.Settings.Parallel == 0 {
		c.Settings.Parallel = DefaultParallel
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
	if c.Snapshots == "" {
		c.Snapshots = DefaultSnapshots
	}
}
