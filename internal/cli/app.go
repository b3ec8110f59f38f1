package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskflow/internal/config"
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/logging"
	"github.com/mrz1836/taskflow/internal/projectcfg"
	"github.com/mrz1836/taskflow/internal/store"
	"github.com/mrz1836/taskflow/internal/tracker"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// app bundles what a command needs to talk to the task graph.
type app struct {
	cfg      *config.Config
	registry *workflow.Registry
	svc      *tracker.Service
	closers  []func()
}

// Close releases the store and cache connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// loadConfig loads the layered configuration with the --db override applied.
func loadConfig(ctx context.Context, flags *GlobalFlags) (*config.Config, error) {
	overrides := &config.Config{Store: config.StoreConfig{Path: flags.DB}}
	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// loadRegistry returns the built-in templates with the custom workflow
// directory, if configured, layered over them.
func loadRegistry(ctx context.Context, cfg *config.Config) (*workflow.Registry, error) {
	reg := workflow.NewDefaultRegistry()
	if cfg.Workflow.CustomDir == "" {
		return reg, nil
	}

	custom, err := workflow.NewLoader("").LoadDir(ctx, cfg.Workflow.CustomDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom workflows: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("dir", cfg.Workflow.CustomDir).
		Int("count", len(custom)).
		Msg("custom workflows loaded")

	return reg.WithOverrides(custom...)
}

// openApp builds the tracker service from configuration: the store, the
// workflow registry, and the optional Redis workflow cache.
func openApp(ctx context.Context, flags *GlobalFlags) (*app, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "cli").Logger()

	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, registry: reg}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	})

	var resolverOpts []projectcfg.Option
	if cfg.Cache.Enabled {
		rc, err := projectcfg.NewRedisCache(ctx, projectcfg.RedisOptions{
			URL:         cfg.Cache.RedisURL,
			MaxActive:   cfg.Cache.MaxActive,
			MaxIdle:     cfg.Cache.MaxIdle,
			IdleTimeout: cfg.Cache.IdleTimeout,
		})
		if err != nil {
			// The cache only speeds up workflow lookups; run without it.
			logger.Warn().Err(err).
				Str("redis_url", logging.SafeValue("redis_url", cfg.Cache.RedisURL)).
				Msg("workflow cache disabled")
		} else {
			resolverOpts = append(resolverOpts, projectcfg.WithCache(rc, cfg.Cache.TTL))
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.svc = tracker.New(st, projectcfg.NewResolver(reg, resolverOpts...),
		tracker.WithCascadePolicy(constants.CascadePolicy(cfg.Tasks.CascadePolicy)),
		tracker.WithMaxAncestorDepth(cfg.Tasks.MaxAncestorDepth),
	)
	return a, nil
}

// openStore opens the configured store driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	depth := store.WithMaxAncestorDepth(cfg.Tasks.MaxAncestorDepth)

	var (
		st  *store.SQLiteStore
		err error
	)
	if cfg.Store.Driver == constants.StoreDriverMemory {
		st, err = store.NewMemoryStore(ctx, depth)
	} else {
		var path string
		if path, err = cfg.Store.DatabasePath(); err != nil {
			return nil, err
		}
		st, err = store.NewSQLiteStore(ctx, path, depth)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}
