// Package domain provides shared domain types for the taskflow task graph.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/mrz1836/taskflow/internal/constants"
)

// Task is a work item inside a project.
//
// Example JSON representation:
//
//	{
//	    "id": "6f1c...",
//	    "project_id": "a2b9...",
//	    "title": "Add login form",
//	    "type": "feature",
//	    "status": "in_progress",
//	    "priority": "high",
//	    "creator_id": "user-1",
//	    "parent_id": "0c4d...",
//	    "created_at": "2026-01-10T10:00:00Z",
//	    "updated_at": "2026-01-10T11:00:00Z"
//	}
type Task struct {
	// ID is the stable unique identifier.
	ID string `json:"id"`

	// ProjectID is the owning project. Required.
	ProjectID string `json:"project_id"`

	// Title is a short, non-empty summary.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	Type     constants.TaskType   `json:"type"`
	Status   constants.TaskStatus `json:"status"`
	Priority constants.Priority   `json:"priority"`

	// AssigneeID is the optional user the task is assigned to.
	AssigneeID string `json:"assignee_id,omitempty"`

	// CreatorID is the user that created the task. Immutable after creation.
	CreatorID string `json:"creator_id"`

	// ParentID is the optional parent task. Empty means top-level.
	// A parent always belongs to the same project.
	ParentID string `json:"parent_id,omitempty"`

	// TeamID is the optional owning team.
	TeamID string `json:"team_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of the task. Task has no reference fields, so a value
// copy is a deep copy.
func (t *Task) Clone() *Task {
	clone := *t
	return &clone
}

// HasParent reports whether the task is attached to a parent.
func (t *Task) HasParent() bool {
	return t.ParentID != ""
}

// TaskInput is a candidate task for creation. Zero values for Type, Status and
// Priority are replaced by defaults before validation.
type TaskInput struct {
	ProjectID   string               `json:"project_id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Type        constants.TaskType   `json:"type,omitempty"`
	Status      constants.TaskStatus `json:"status,omitempty"`
	Priority    constants.Priority   `json:"priority,omitempty"`
	AssigneeID  string               `json:"assignee_id,omitempty"`
	CreatorID   string               `json:"creator_id"`
	ParentID    string               `json:"parent_id,omitempty"`
	TeamID      string               `json:"team_id,omitempty"`
}

// TaskPatch is a partial update of a task's plain fields. Nil pointers leave a
// field untouched; a pointer to "" clears an optional reference.
//
// Status and parent are not patchable here: they go through the status engine
// and the relation manager respectively.
type TaskPatch struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Type        *constants.TaskType `json:"type,omitempty"`
	Priority    *constants.Priority `json:"priority,omitempty"`
	AssigneeID  *string             `json:"assignee_id,omitempty"`
	TeamID      *string             `json:"team_id,omitempty"`
	CreatorID   *string             `json:"creator_id,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Type == nil &&
		p.Priority == nil && p.AssigneeID == nil && p.TeamID == nil && p.CreatorID == nil
}
