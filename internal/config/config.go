// Package config provides configuration management for taskflow with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TASKFLOW_* prefix)
//  3. Project config (.taskflow/config.yaml)
//  4. Global config (~/.taskflow/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"time"

	"github.com/mrz1836/taskflow/internal/constants"
)

// Config is the root configuration structure for taskflow.
type Config struct {
	// Store selects and locates the persistence backend.
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Cache configures the optional Redis cache for resolved project workflows.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Workflow contains settings for workflow templates.
	Workflow WorkflowConfig `yaml:"workflow" mapstructure:"workflow"`

	// Tasks contains settings for task graph operations.
	Tasks TasksConfig `yaml:"tasks" mapstructure:"tasks"`
}

// StoreConfig contains settings for the task store.
type StoreConfig struct {
	// Driver is "sqlite" or "memory".
	// Default: "sqlite"
	Driver string `yaml:"driver" mapstructure:"driver"`

	// Path is the SQLite database file. Empty means ~/.taskflow/taskflow.db.
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig contains settings for the Redis workflow cache.
type CacheConfig struct {
	// Enabled turns the cache on. Default: false
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// RedisURL is the connection URL, e.g. redis://localhost:6379/0.
	// It may carry credentials and is redacted in logs.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`

	// TTL is how long a resolved workflow stays cached.
	// Default: 10 minutes
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// MaxActive is the maximum number of pooled connections.
	MaxActive int `yaml:"max_active" mapstructure:"max_active"`

	// MaxIdle is the maximum number of idle pooled connections.
	MaxIdle int `yaml:"max_idle" mapstructure:"max_idle"`

	// IdleTimeout closes idle connections after this duration.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// WorkflowConfig contains settings for workflow templates.
type WorkflowConfig struct {
	// DefaultIndustry is used by `project create` when no industry is given.
	// Default: "other"
	DefaultIndustry string `yaml:"default_industry" mapstructure:"default_industry"`

	// CustomDir holds custom workflow files (*.yaml, *.yml, *.json) that
	// override the built-in industry templates.
	CustomDir string `yaml:"custom_dir" mapstructure:"custom_dir"`
}

// TasksConfig contains settings for task graph operations.
type TasksConfig struct {
	// CascadePolicy is applied when a deleted task has children: "orphan" or "recursive".
	// Default: "orphan"
	CascadePolicy string `yaml:"cascade_policy" mapstructure:"cascade_policy"`

	// MaxAncestorDepth is the hard upper bound for ancestor walks.
	MaxAncestorDepth int `yaml:"max_ancestor_depth" mapstructure:"max_ancestor_depth"`
}

// DefaultConfig returns a new Config with the built-in default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: constants.StoreDriverSQLite,
		},
		Cache: CacheConfig{
			Enabled:     false,
			TTL:         constants.DefaultCacheTTL,
			MaxActive:   10,
			MaxIdle:     2,
			IdleTimeout: 5 * time.Minute,
		},
		Workflow: WorkflowConfig{
			DefaultIndustry: string(constants.IndustryOther),
		},
		Tasks: TasksConfig{
			CascadePolicy:    string(constants.CascadeOrphan),
			MaxAncestorDepth: constants.DefaultMaxAncestorDepth,
		},
	}
}
