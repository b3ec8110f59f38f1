package config

import (
	"net/url"
	"strings"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - store.driver must be sqlite or memory
//   - cache.redis_url must be a redis:// or rediss:// URL when the cache is enabled
//   - cache.ttl must be positive; pool sizes must be consistent
//   - workflow.default_industry must not be empty
//   - tasks.cascade_policy must be orphan or recursive
//   - tasks.max_ancestor_depth must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateStoreConfig(&cfg.Store); err != nil {
		return err
	}

	if err := validateCacheConfig(&cfg.Cache); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Workflow.DefaultIndustry) == "" {
		return errors.Wrap(errors.ErrConfigInvalidWorkflow,
			"workflow.default_industry must not be empty")
	}

	return validateTasksConfig(&cfg.Tasks)
}

func validateStoreConfig(cfg *StoreConfig) error {
	switch cfg.Driver {
	case constants.StoreDriverSQLite, constants.StoreDriverMemory:
		return nil
	default:
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.driver must be %q or %q, got %q",
			constants.StoreDriverSQLite, constants.StoreDriverMemory, cfg.Driver)
	}
}

// validateCacheConfig only checks connection settings when the cache is on.
func validateCacheConfig(cfg *CacheConfig) error {
	if cfg.TTL <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidCache,
			"cache.ttl must be positive, got %s", cfg.TTL)
	}
	if !cfg.Enabled {
		return nil
	}

	u, err := url.Parse(cfg.RedisURL)
	if cfg.RedisURL == "" || err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		return errors.Wrap(errors.ErrConfigInvalidCache,
			"cache.redis_url must be a redis:// or rediss:// URL when cache.enabled is true")
	}

	if cfg.MaxActive < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidCache,
			"cache.max_active must be at least 1, got %d", cfg.MaxActive)
	}
	if cfg.MaxIdle < 0 || cfg.MaxIdle > cfg.MaxActive {
		return errors.Wrapf(errors.ErrConfigInvalidCache,
			"cache.max_idle must be between 0 and cache.max_active (%d), got %d", cfg.MaxActive, cfg.MaxIdle)
	}
	if cfg.IdleTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidCache,
			"cache.idle_timeout cannot be negative, got %s", cfg.IdleTimeout)
	}
	return nil
}

func validateTasksConfig(cfg *TasksConfig) error {
	if !constants.CascadePolicy(cfg.CascadePolicy).IsValid() {
		return errors.Wrapf(errors.ErrConfigInvalidTasks,
			"tasks.cascade_policy must be %q or %q, got %q",
			constants.CascadeOrphan, constants.CascadeRecursive, cfg.CascadePolicy)
	}
	if cfg.MaxAncestorDepth < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidTasks,
			"tasks.max_ancestor_depth must be positive, got %d", cfg.MaxAncestorDepth)
	}
	return nil
}
