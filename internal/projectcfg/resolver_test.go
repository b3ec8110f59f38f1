package projectcfg

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/testutil"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// mapCache is an in-process Cache for resolver tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]domain.StepDefinition
	gets    int
	err     error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]domain.StepDefinition{}}
}

func (c *mapCache) Get(_ context.Context, id string) ([]domain.StepDefinition, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	steps, ok := c.entries[id]
	return domain.CloneSteps(steps), ok, nil
}

func (c *mapCache) Set(_ context.Context, id string, steps []domain.StepDefinition, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[id] = domain.CloneSteps(steps)
	return nil
}

var customSteps = []domain.StepDefinition{
	{Name: "Open", Status: constants.BoardStatusTodo},
	{Name: "Shipped", Status: constants.BoardStatusDelivered},
}

func TestResolver_SeedSteps(t *testing.T) {
	r := NewResolver(workflow.NewDefaultRegistry())

	steps, err := r.SeedSteps("legal", nil)
	require.NoError(t, err)
	assert.Equal(t, workflow.NewLegalTemplate().Steps, steps)

	steps, err = r.SeedSteps("unknown", nil)
	require.NoError(t, err)
	assert.Equal(t, workflow.NewOtherTemplate().Steps, steps)

	steps, err = r.SeedSteps("legal", customSteps)
	require.NoError(t, err)
	assert.Equal(t, customSteps, steps)

	_, err = r.SeedSteps("legal", []domain.StepDefinition{{Name: "x", Status: "nope"}})
	assert.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
}

func TestResolver_Steps(t *testing.T) {
	r := NewResolver(workflow.NewDefaultRegistry())
	ctx := context.Background()

	steps, err := r.Steps(ctx, &domain.Project{ID: "p1", Industry: "product"})
	require.NoError(t, err)
	assert.Equal(t, workflow.NewProductTemplate().Steps, steps)

	steps, err = r.Steps(ctx, &domain.Project{ID: "p2", Industry: "product", Workflow: customSteps})
	require.NoError(t, err)
	assert.Equal(t, customSteps, steps)

	_, err = r.Steps(ctx, nil)
	assert.ErrorIs(t, err, tferrors.ErrProjectNotFound)
}

func TestResolver_UsesCache(t *testing.T) {
	c := newMapCache()
	r := NewResolver(workflow.NewDefaultRegistry(), WithCache(c, time.Minute))
	ctx := context.Background()
	p := &domain.Project{ID: "p1", Industry: "marketing"}

	first, err := r.Steps(ctx, p)
	require.NoError(t, err)
	assert.Contains(t, c.entries, "p1")

	cached, err := r.Steps(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first, cached)
	assert.Equal(t, 2, c.gets)

	other, err := r.Steps(ctx, &domain.Project{ID: "p2", Industry: "marketing", Workflow: customSteps})
	require.NoError(t, err)
	assert.Equal(t, customSteps, other)
	assert.Len(t, c.entries, 2)
}

func TestResolver_CacheFailureFallsThrough(t *testing.T) {
	c := newMapCache()
	c.err = testutil.ErrMockCacheDown
	r := NewResolver(workflow.NewDefaultRegistry(), WithCache(c, time.Minute))

	steps, err := r.Steps(context.Background(), &domain.Project{ID: "p1", Industry: "logistics"})
	require.NoError(t, err)
	assert.Equal(t, workflow.NewLogisticsTemplate().Steps, steps)
}

func TestResolver_Board(t *testing.T) {
	r := NewResolver(workflow.NewDefaultRegistry())

	b, err := r.Board(context.Background(), &domain.Project{ID: "p1", Workflow: customSteps})
	require.NoError(t, err)
	step, ok := b.StepFor(constants.TaskStatusDelivered)
	require.True(t, ok)
	assert.Equal(t, "Shipped", step.Name)

	_, err = r.Board(context.Background(), &domain.Project{ID: "p2", Workflow: []domain.StepDefinition{{Name: "", Status: "todo"}}})
	assert.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
}
