package config

import (
	"stacklens/internal/explore"
	"stacklens/internal/index"
	"stacklens/internal/repo"
)

// Config represents the complete stacklens configuration.
// It can be loaded from .stacklens/config.yml with environment variable overrides.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
}

// AnalysisConfig bounds the call-graph exploration.
type AnalysisConfig struct {
	Depth    int `yaml:"depth" mapstructure:"depth"`         // call-graph hops from the throw site
	MaxFiles int `yaml:"max_files" mapstructure:"max_files"` // cap on Java files indexed per request
}

// SourceConfig defines which files the discovery pass skips.
type SourceConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns, '/'-separated
}

// GitConfig configures remote repository access.
type GitConfig struct {
	TokenEnv   string `yaml:"token_env" mapstructure:"token_env"`     // env var consulted for the access token
	CloneDepth int    `yaml:"clone_depth" mapstructure:"clone_depth"` // history depth for shallow clones
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Depth:    explore.DefaultDepth,
			MaxFiles: index.DefaultMaxFiles,
		},
		Source: SourceConfig{
			Ignore: append([]string{}, repo.DefaultIgnorePatterns...),
		},
		Git: GitConfig{
			TokenEnv:   "GITHUB_TOKEN",
			CloneDepth: repo.DefaultCloneDepth,
		},
	}
}
