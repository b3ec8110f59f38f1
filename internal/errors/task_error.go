package errors

import (
	"fmt"
	"strings"
)

// TaskError carries the kind of a task graph failure together with the
// offending task id and field, so the API layer can build a precise 4xx
// response. Unwrap returns Kind, so errors.Is(err, ErrCycle) still works.
type TaskError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error
	// TaskID is the task the failure is about (empty if none).
	TaskID string
	// Field is the offending field name (empty if none).
	Field string
	// Msg is additional detail.
	Msg string
}

// NewTaskError builds a TaskError.
func NewTaskError(kind error, taskID, field, format string, args ...any) *TaskError {
	return &TaskError{
		Kind:   kind,
		TaskID: taskID,
		Field:  field,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.TaskID != "" {
		b.WriteString(": task ")
		b.WriteString(e.TaskID)
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// Unwrap returns the error kind.
func (e *TaskError) Unwrap() error {
	return e.Kind
}
