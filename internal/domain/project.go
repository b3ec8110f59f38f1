package domain

import (
	"time"

	"github.com/mrz1836/taskflow/internal/constants"
)

// StepDefinition is a named board column mapped to a board status.
// Order within a workflow is significant: it is the column order.
type StepDefinition struct {
	Name   string                `json:"name" yaml:"name"`
	Status constants.BoardStatus `json:"status" yaml:"status"`
}

// Project is the slice of project configuration the task graph needs:
// its industry tag and its workflow steps (copied from the industry template
// at creation time unless customized).
type Project struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Industry  string           `json:"industry"`
	Workflow  []StepDefinition `json:"workflow,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// CloneSteps returns a copy of a step list. Nil stays nil.
func CloneSteps(steps []StepDefinition) []StepDefinition {
	if steps == nil {
		return nil
	}
	out := make([]StepDefinition, len(steps))
	copy(out, steps)
	return out
}
