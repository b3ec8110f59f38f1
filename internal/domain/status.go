package domain

import "github.com/mrz1836/taskflow/internal/constants"

// Re-export status and relation types from the constants package so that
// consumers can import domain types and their enumerations together.
type (
	// TaskStatus is the canonical status stored on a task.
	TaskStatus = constants.TaskStatus

	// BoardStatus is the status a workflow step is labeled with.
	BoardStatus = constants.BoardStatus

	// RelationType names a typed edge between two tasks.
	RelationType = constants.RelationType
)
