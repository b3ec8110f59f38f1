package domain

import "time"

// Activity is an immutable audit record of one change to a task.
//
// Example JSON representation:
//
//	{
//	    "id": "1e0f...",
//	    "task_id": "6f1c...",
//	    "user_id": "user-1",
//	    "action": "status_changed",
//	    "field": "status",
//	    "old_value": "todo",
//	    "new_value": "done",
//	    "created_at": "2026-01-10T11:00:00Z"
//	}
type Activity struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Field     string    `json:"field,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
