// Package projectcfg resolves the workflow steps of a project: its own
// custom step list when it has one, otherwise the default template of its
// industry. Resolved steps can be cached in Redis.
package projectcfg

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// Cache stores resolved step lists by project id. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the cached steps. The bool is false on a miss.
	Get(ctx context.Context, projectID string) ([]domain.StepDefinition, bool, error)

	// Set caches steps for ttl.
	Set(ctx context.Context, projectID string, steps []domain.StepDefinition, ttl time.Duration) error
}

// Resolver answers "which steps does this project use". A project's steps
// are fixed at creation, so cached entries only ever expire.
type Resolver struct {
	registry *workflow.Registry
	cache    Cache
	ttl      time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache enables caching of resolved steps for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.ttl = ttl
	}
}

// NewResolver creates a resolver over a template registry.
func NewResolver(registry *workflow.Registry, opts ...Option) *Resolver {
	r := &Resolver{registry: registry}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the template registry the resolver falls back to.
func (r *Resolver) Registry() *workflow.Registry {
	return r.registry
}

// SeedSteps returns the steps a new project starts with: a copy of custom
// when given (validated), otherwise the industry's default template.
func (r *Resolver) SeedSteps(industry string, custom []domain.StepDefinition) ([]domain.StepDefinition, error) {
	if len(custom) == 0 {
		return r.registry.DefaultSteps(industry), nil
	}
	if err := workflow.ValidateSteps(custom); err != nil {
		return nil, err
	}
	return domain.CloneSteps(custom), nil
}

// Steps resolves a project's steps. Cache failures are logged and ignored:
// the project record is the source of truth.
func (r *Resolver) Steps(ctx context.Context, p *domain.Project) ([]domain.StepDefinition, error) {
	if p == nil {
		return nil, tferrors.ErrProjectNotFound
	}
	log := zerolog.Ctx(ctx).With().Str("component", "projectcfg").Str("project_id", p.ID).Logger()

	if r.cache != nil {
		steps, ok, err := r.cache.Get(ctx, p.ID)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("workflow cache read failed")
		case ok:
			return steps, nil
		}
	}

	steps, err := r.SeedSteps(p.Industry, p.Workflow)
	if err != nil {
		return nil, tferrors.Wrapf(err, "project %s", p.ID)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, p.ID, steps, r.ttl); err != nil {
			log.Warn().Err(err).Msg("workflow cache write failed")
		}
	}
	return steps, nil
}

// Board builds the board of a project.
func (r *Resolver) Board(ctx context.Context, p *domain.Project) (*workflow.Board, error) {
	steps, err := r.Steps(ctx, p)
	if err != nil {
		return nil, err
	}
	return workflow.NewBoard(steps)
}
