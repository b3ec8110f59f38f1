package constants

// TaskStatus is the canonical status stored on a task.
// Status values use snake_case for JSON serialization compatibility.
//
// No transition order is enforced between canonical statuses: any status may
// move to any other status, including out of done and delivered.
type TaskStatus string

// Canonical task statuses.
const (
	// TaskStatusTodo is the initial status of a newly created task.
	TaskStatusTodo TaskStatus = "todo"

	// TaskStatusInProgress indicates work on the task has started.
	TaskStatusInProgress TaskStatus = "in_progress"

	// TaskStatusDone indicates the work is finished.
	// Conventionally terminal for reporting, but not unexitable.
	TaskStatusDone TaskStatus = "done"

	// TaskStatusDelivered indicates the finished work was handed over.
	// Conventionally terminal for reporting, but not unexitable.
	TaskStatusDelivered TaskStatus = "delivered"
)

// String returns the string representation of the TaskStatus.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the canonical statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is conventionally terminal for reporting.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusDelivered
}

// TaskStatuses returns the canonical statuses in board order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusDelivered}
}

// BoardStatus is the status a workflow step is labeled with.
// It is broader than TaskStatus and is reconciled to a canonical status
// before it touches a task.
type BoardStatus string

// Board statuses used by the industry workflow templates.
const (
	BoardStatusBacklog    BoardStatus = "backlog"
	BoardStatusPlanned    BoardStatus = "planned"
	BoardStatusInProgress BoardStatus = "in_progress"
	BoardStatusOnHold     BoardStatus = "on_hold"
	BoardStatusCompleted  BoardStatus = "completed"
	BoardStatusCancelled  BoardStatus = "cancelled"

	// The canonical names below are accepted as board statuses so that custom
	// project workflows can target them directly.
	BoardStatusTodo      BoardStatus = "todo"
	BoardStatusDone      BoardStatus = "done"
	BoardStatusDelivered BoardStatus = "delivered"
)

// String returns the string representation of the BoardStatus.
func (s BoardStatus) String() string {
	return string(s)
}
