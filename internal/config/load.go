package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskflow/internal/errors"
)

// EnvPrefix is prepended to every environment variable key, e.g.
// TASKFLOW_STORE_DRIVER for store.driver.
const EnvPrefix = "TASKFLOW"

// newViperInstance creates a Viper instance with the taskflow env prefix,
// key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := mergeFile(v, ProjectConfigPath(), "failed to read project config file"); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("store.driver", cfg.Store.Driver).
		Bool("cache.enabled", cfg.Cache.Enabled).
		Str("tasks.cascade_policy", cfg.Tasks.CascadePolicy).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig reads ~/.taskflow/config.yaml when it exists.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil //nolint:nilerr // a missing home directory is not a config problem
	}
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// mergeFile merges path over the values already in v when the file exists.
func mergeFile(v *viper.Viper, path, msg string) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrapf(err, "%s: %s", msg, path)
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level; the project file wins.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the YAML tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.max_active", d.Cache.MaxActive)
	v.SetDefault("cache.max_idle", d.Cache.MaxIdle)
	v.SetDefault("cache.idle_timeout", d.Cache.IdleTimeout.String())

	v.SetDefault("workflow.default_industry", d.Workflow.DefaultIndustry)
	v.SetDefault("workflow.custom_dir", d.Workflow.CustomDir)

	v.SetDefault("tasks.cascade_policy", d.Tasks.CascadePolicy)
	v.SetDefault("tasks.max_ancestor_depth", d.Tasks.MaxAncestorDepth)
}

// applyOverrides merges non-zero override values into the config.
//
// Cache.Enabled cannot be overridden to false here because the zero value
// is indistinguishable from "not set". The CLI handles bool flags itself.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Store.Driver != "" {
		cfg.Store.Driver = overrides.Store.Driver
	}
	if overrides.Store.Path != "" {
		cfg.Store.Path = overrides.Store.Path
	}

	if overrides.Cache.Enabled {
		cfg.Cache.Enabled = true
	}
	if overrides.Cache.RedisURL != "" {
		cfg.Cache.RedisURL = overrides.Cache.RedisURL
	}
	if overrides.Cache.TTL != 0 {
		cfg.Cache.TTL = overrides.Cache.TTL
	}

	if overrides.Workflow.DefaultIndustry != "" {
		cfg.Workflow.DefaultIndustry = overrides.Workflow.DefaultIndustry
	}
	if overrides.Workflow.CustomDir != "" {
		cfg.Workflow.CustomDir = overrides.Workflow.CustomDir
	}

	if overrides.Tasks.CascadePolicy != "" {
		cfg.Tasks.CascadePolicy = overrides.Tasks.CascadePolicy
	}
	if overrides.Tasks.MaxAncestorDepth != 0 {
		cfg.Tasks.MaxAncestorDepth = overrides.Tasks.MaxAncestorDepth
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
