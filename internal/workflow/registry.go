package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

// Template is the ordered board of one industry.
type Template struct {
	Industry constants.Industry
	Steps    []domain.StepDefinition
}

// Registry maps industry tags to workflow templates.
// A Registry is immutable once built, so it is safe for concurrent use
// without locking; it is meant to be built once at startup and injected.
type Registry struct {
	templates map[constants.Industry][]domain.StepDefinition
	order     []constants.Industry
}

// NewRegistry builds a registry from templates. The "other" template is
// mandatory because it is the guaranteed fallback. Later templates for the
// same industry replace earlier ones.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{templates: make(map[constants.Industry][]domain.StepDefinition, len(templates))}

	for _, t := range templates {
		industry := constants.Industry(strings.TrimSpace(string(t.Industry)))
		if industry == "" {
			return nil, fmt.Errorf("%w: template industry is required", tferrors.ErrWorkflowInvalid)
		}
		if err := ValidateSteps(t.Steps); err != nil {
			return nil, fmt.Errorf("industry %q: %w", industry, err)
		}
		if _, exists := r.templates[industry]; !exists {
			r.order = append(r.order, industry)
		}
		r.templates[industry] = domain.CloneSteps(t.Steps)
	}

	if _, ok := r.templates[constants.IndustryOther]; !ok {
		return nil, fmt.Errorf("%w: the %q template is required", tferrors.ErrWorkflowInvalid, constants.IndustryOther)
	}

	return r, nil
}

// DefaultSteps returns the ordered steps for an industry. An industry without
// an exact, case-sensitive match gets the "other" template, so the result is
// never empty. Callers normalize user input first. Every call returns a fresh
// slice.
func (r *Registry) DefaultSteps(industry string) []domain.StepDefinition {
	if steps, ok := r.templates[constants.Industry(industry)]; ok {
		return domain.CloneSteps(steps)
	}
	return domain.CloneSteps(r.templates[constants.IndustryOther])
}

// Lookup returns the steps for an exact industry match only.
func (r *Registry) Lookup(industry string) ([]domain.StepDefinition, bool) {
	steps, ok := r.templates[constants.Industry(industry)]
	if !ok {
		return nil, false
	}
	return domain.CloneSteps(steps), true
}

// Industries returns the registered industries in registration order.
func (r *Registry) Industries() []constants.Industry {
	out := make([]constants.Industry, len(r.order))
	copy(out, r.order)
	return out
}

// WithOverrides returns a new registry where each custom workflow that names
// an industry replaces that industry's template. Workflows without an
// industry are ignored. The receiver is left untouched.
func (r *Registry) WithOverrides(custom ...*Workflow) (*Registry, error) {
	templates := make([]Template, 0, len(r.order)+len(custom))
	for _, industry := range r.order {
		templates = append(templates, Template{Industry: industry, Steps: r.templates[industry]})
	}

	overrides := make([]*Workflow, 0, len(custom))
	for _, w := range custom {
		if w != nil && strings.TrimSpace(w.Industry) != "" {
			overrides = append(overrides, w)
		}
	}
	// Deterministic precedence when two files target the same industry.
	sort.SliceStable(overrides, func(i, j int) bool { return overrides[i].Name < overrides[j].Name })

	for _, w := range overrides {
		templates = append(templates, Template{Industry: constants.Industry(w.Industry), Steps: w.Steps})
	}

	return NewRegistry(templates...)
}
