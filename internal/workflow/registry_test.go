package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

func TestNewDefaultRegistry_Industries(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []constants.Industry{
		constants.IndustryProgramming,
		constants.IndustryMarketing,
		constants.IndustryLegal,
		constants.IndustryProduct,
		constants.IndustryLogistics,
		constants.IndustryOther,
	}, r.Industries())
}

func TestRegistry_DefaultSteps_ExactMatch(t *testing.T) {
	r := NewDefaultRegistry()

	for _, industry := range r.Industries() {
		t.Run(industry.String(), func(t *testing.T) {
			steps := r.DefaultSteps(industry.String())
			require.NotEmpty(t, steps)
			for _, s := range steps {
				canonical, ok := CanonicalStatus(s.Status)
				require.True(t, ok, "step %q has unknown status %q", s.Name, s.Status)
				assert.True(t, canonical.IsValid())
			}
		})
	}
}

func TestRegistry_DefaultSteps_Programming(t *testing.T) {
	r := NewDefaultRegistry()

	first := r.DefaultSteps("programming")
	second := r.DefaultSteps("programming")

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "Backlog", first[0].Name)
	assert.Equal(t, constants.BoardStatusBacklog, first[0].Status)
}

func TestRegistry_DefaultSteps_FallsBackToOther(t *testing.T) {
	r := NewDefaultRegistry()
	other := r.DefaultSteps("other")

	tests := []string{"unknown-industry-xyz", "", "Programming", "construction"}
	for _, industry := range tests {
		t.Run(industry, func(t *testing.T) {
			assert.Equal(t, other, r.DefaultSteps(industry))
		})
	}
}

func TestRegistry_DefaultSteps_ExactMatchOnly(t *testing.T) {
	r := NewDefaultRegistry()
	other := NewOtherTemplate().Steps

	assert.Equal(t, other, r.DefaultSteps(" programming"))
	assert.Equal(t, other, r.DefaultSteps("legal "))
	assert.Equal(t, other, r.DefaultSteps("Legal"))

	_, ok := r.Lookup(" logistics")
	assert.False(t, ok)
}

func TestRegistry_DefaultSteps_ReturnsCopy(t *testing.T) {
	r := NewDefaultRegistry()

	steps := r.DefaultSteps("marketing")
	steps[0].Name = "mutated"

	assert.Equal(t, "Ideas", r.DefaultSteps("marketing")[0].Name)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewDefaultRegistry()

	steps, ok := r.Lookup("logistics")
	require.True(t, ok)
	assert.Equal(t, "Orders", steps[0].Name)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
}

func TestNewRegistry_RequiresOther(t *testing.T) {
	_, err := NewRegistry(NewProgrammingTemplate())
	require.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
}

func TestNewRegistry_RejectsInvalidTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
	}{
		{"empty industry", Template{Industry: " ", Steps: NewOtherTemplate().Steps}},
		{"no steps", Template{Industry: "sales"}},
		{"bad status", Template{Industry: "sales", Steps: []domain.StepDefinition{{Name: "x", Status: "archived"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(NewOtherTemplate(), tt.tmpl)
			require.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
		})
	}
}

func TestRegistry_WithOverrides(t *testing.T) {
	base := NewDefaultRegistry()
	custom := &Workflow{
		Name:     "our-dev-flow",
		Industry: "programming",
		Steps: []domain.StepDefinition{
			{Name: "Todo", Status: constants.BoardStatusTodo},
			{Name: "Shipped", Status: constants.BoardStatusDelivered},
		},
	}
	unnamed := &Workflow{Name: "no-industry", Steps: custom.Steps}

	r, err := base.WithOverrides(custom, unnamed, nil)
	require.NoError(t, err)

	assert.Equal(t, custom.Steps, r.DefaultSteps("programming"))
	assert.Equal(t, base.DefaultSteps("legal"), r.DefaultSteps("legal"))
	assert.Equal(t, "Backlog", base.DefaultSteps("programming")[0].Name, "base registry must stay untouched")
	assert.Len(t, r.Industries(), len(base.Industries()))
}

func TestValidateSteps(t *testing.T) {
	tests := []struct {
		name  string
		steps []domain.StepDefinition
		ok    bool
	}{
		{"valid", NewOtherTemplate().Steps, true},
		{"empty", nil, false},
		{"blank name", []domain.StepDefinition{{Name: " ", Status: constants.BoardStatusBacklog}}, false},
		{"duplicate name ignores case", []domain.StepDefinition{
			{Name: "Done", Status: constants.BoardStatusCompleted},
			{Name: "done", Status: constants.BoardStatusDone},
		}, false},
		{"unknown status", []domain.StepDefinition{{Name: "Later", Status: "someday"}}, false},
		{"canonical statuses accepted", []domain.StepDefinition{
			{Name: "Todo", Status: constants.BoardStatusTodo},
			{Name: "Doing", Status: constants.BoardStatusInProgress},
			{Name: "Done", Status: constants.BoardStatusDone},
			{Name: "Delivered", Status: constants.BoardStatusDelivered},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSteps(tt.steps)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
			}
		})
	}
}

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		board constants.BoardStatus
		want  constants.TaskStatus
	}{
		{constants.BoardStatusBacklog, constants.TaskStatusTodo},
		{constants.BoardStatusPlanned, constants.TaskStatusTodo},
		{constants.BoardStatusInProgress, constants.TaskStatusInProgress},
		{constants.BoardStatusOnHold, constants.TaskStatusInProgress},
		{constants.BoardStatusCompleted, constants.TaskStatusDone},
		{constants.BoardStatusCancelled, constants.TaskStatusDone},
		{constants.BoardStatusDelivered, constants.TaskStatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.board.String(), func(t *testing.T) {
			got, ok := CanonicalStatus(tt.board)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := CanonicalStatus("archived")
	assert.False(t, ok)
}
