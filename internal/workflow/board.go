package workflow

import (
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
)

// UnmappedColumn is the name of the overflow column for tasks whose status no
// step maps to.
const UnmappedColumn = "Unmapped"

// Board locates tasks on a project's ordered workflow steps.
// Board is read-only after construction.
type Board struct {
	steps     []domain.StepDefinition
	canonical []constants.TaskStatus
}

// NewBoard builds a board from a validated step list.
func NewBoard(steps []domain.StepDefinition) (*Board, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	b := &Board{
		steps:     domain.CloneSteps(steps),
		canonical: make([]constants.TaskStatus, len(steps)),
	}
	for i, s := range steps {
		b.canonical[i], _ = CanonicalStatus(s.Status)
	}
	return b, nil
}

// Steps returns a copy of the board's steps in column order.
func (b *Board) Steps() []domain.StepDefinition {
	return domain.CloneSteps(b.steps)
}

// StepFor returns the column a task with the given status occupies: the first
// step whose canonical status matches. A delivered task with no delivered
// step shares the first done column. The second return is false when the
// status maps to no column.
func (b *Board) StepFor(status constants.TaskStatus) (domain.StepDefinition, bool) {
	if i := b.indexOf(status); i >= 0 {
		return b.steps[i], true
	}
	if status == constants.TaskStatusDelivered {
		if i := b.indexOf(constants.TaskStatusDone); i >= 0 {
			return b.steps[i], true
		}
	}
	return domain.StepDefinition{}, false
}

func (b *Board) indexOf(status constants.TaskStatus) int {
	for i, c := range b.canonical {
		if c == status {
			return i
		}
	}
	return -1
}

// Column is one board column with the tasks that currently occupy it.
type Column struct {
	Step  domain.StepDefinition `json:"step"`
	Tasks []*domain.Task        `json:"tasks"`
}

// Columns groups tasks by step in column order, keeping the input order of
// tasks within a column. Tasks that map to no step are collected in a trailing
// UnmappedColumn, which is omitted when empty.
func (b *Board) Columns(tasks []*domain.Task) []Column {
	cols := make([]Column, len(b.steps))
	index := make(map[string]int, len(b.steps))
	for i, s := range b.steps {
		cols[i] = Column{Step: s, Tasks: []*domain.Task{}}
		index[s.Name] = i
	}

	var unmapped []*domain.Task
	for _, t := range tasks {
		s, ok := b.StepFor(t.Status)
		if !ok {
			unmapped = append(unmapped, t)
			continue
		}
		i := index[s.Name]
		cols[i].Tasks = append(cols[i].Tasks, t)
	}

	if len(unmapped) > 0 {
		cols = append(cols, Column{Step: domain.StepDefinition{Name: UnmappedColumn}, Tasks: unmapped})
	}
	return cols
}
