// Package workflow provides the industry workflow templates that seed a
// project's board, the reconciliation of board statuses to canonical task
// statuses, and board step tracking.
package workflow

import "github.com/mrz1836/taskflow/internal/constants"

// canonicalByBoard reconciles every board status to a canonical task status.
// This is the only place the two vocabularies meet.
//
//nolint:gochecknoglobals // Read-only lookup table
var canonicalByBoard = map[constants.BoardStatus]constants.TaskStatus{
	constants.BoardStatusBacklog:    constants.TaskStatusTodo,
	constants.BoardStatusPlanned:    constants.TaskStatusTodo,
	constants.BoardStatusTodo:       constants.TaskStatusTodo,
	constants.BoardStatusInProgress: constants.TaskStatusInProgress,
	constants.BoardStatusOnHold:     constants.TaskStatusInProgress,
	constants.BoardStatusCompleted:  constants.TaskStatusDone,
	constants.BoardStatusCancelled:  constants.TaskStatusDone,
	constants.BoardStatusDone:       constants.TaskStatusDone,
	constants.BoardStatusDelivered:  constants.TaskStatusDelivered,
}

// CanonicalStatus maps a board status to the canonical task status it stands for.
// The second return is false for an unknown board status.
func CanonicalStatus(s constants.BoardStatus) (constants.TaskStatus, bool) {
	c, ok := canonicalByBoard[s]
	return c, ok
}

// IsValidBoardStatus reports whether s can label a workflow step.
func IsValidBoardStatus(s constants.BoardStatus) bool {
	_, ok := canonicalByBoard[s]
	return ok
}
