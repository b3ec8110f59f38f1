package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
// More specific kinds come first: ErrProjectMismatch also matches ErrValidation.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrProjectMismatch,
		info: ErrorInfo{
			Message: "Both tasks must belong to the same project.",
			Action:  "Move one of the tasks or pick a task from the same project.",
		},
	},
	{
		err: ErrCreatorImmutable,
		info: ErrorInfo{
			Message: "A task's creator cannot be changed.",
		},
	},
	{
		err: ErrInvalidRelationType,
		info: ErrorInfo{
			Message: "Unknown relation type.",
			Action:  "Use one of: BlockedBy, Blocking, ClonedFrom.",
		},
	},
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "The task has invalid fields.",
			Action:  "Check title, type, priority, and project, then retry.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "Task not found.",
			Action:  "Run 'taskflow task show <id>' to verify the task id.",
		},
	},
	{
		err: ErrProjectNotFound,
		info: ErrorInfo{
			Message: "Project not found.",
			Action:  "Run 'taskflow project create' first.",
		},
	},
	{
		err: ErrSelfRelation,
		info: ErrorInfo{
			Message: "A task cannot be related to itself.",
		},
	},
	{
		err: ErrCycle,
		info: ErrorInfo{
			Message: "The change would create a cycle in the task graph.",
			Action:  "Pick a parent or blocker that is not a descendant of the task.",
		},
	},
	{
		err: ErrInvalidStatus,
		info: ErrorInfo{
			Message: "Invalid status.",
			Action:  "Use one of: todo, in_progress, done, delivered.",
		},
	},
	{
		err: ErrInvalidPolicy,
		info: ErrorInfo{
			Message: "Invalid cascade policy.",
			Action:  "Use 'orphan' or 'recursive'.",
		},
	},
	{
		err: ErrWorkflowInvalid,
		info: ErrorInfo{
			Message: "The workflow definition is invalid.",
			Action:  "Every step needs a unique name and a known status.",
		},
	},
	{
		err: ErrWorkflowFileMissing,
		info: ErrorInfo{
			Message: "Workflow file not found.",
			Action:  "Check workflow.custom_dir in your configuration.",
		},
	},
	{
		err: ErrWorkflowParse,
		info: ErrorInfo{
			Message: "Workflow file could not be parsed.",
			Action:  "Fix the YAML/JSON syntax of the workflow file.",
		},
	},
	{
		err: ErrCacheUnavailable,
		info: ErrorInfo{
			Message: "Workflow cache is unavailable.",
			Action:  "Check cache.redis_url or disable the cache.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	// Fast path: O(1) lookup for direct sentinel errors
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Slow path: errors.Is() for wrapped errors
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// This function maps sentinel errors to helpful, actionable messages
// that are suitable for display to end users.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
