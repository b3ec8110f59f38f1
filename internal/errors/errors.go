// Package errors provides centralized error handling for taskflow.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
// Task graph failures additionally carry the offending task and field through
// *TaskError, reachable with errors.As().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates a malformed task field (empty title, unknown priority, ...).
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound indicates a referenced task id does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectNotFound indicates a referenced project id does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrSelfRelation indicates a relation whose source equals its target.
	ErrSelfRelation = errors.New("task cannot relate to itself")

	// ErrCycle indicates a reparent or relation that would create a cycle.
	ErrCycle = errors.New("would create a cycle")

	// ErrInvalidStatus indicates a status outside the canonical enumeration.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrRelationNotFound indicates the requested relation does not exist.
	// Store lookups return it; removal treats it as a no-op.
	ErrRelationNotFound = errors.New("relation not found")

	// ErrInvalidPolicy indicates an unknown cascade policy.
	ErrInvalidPolicy = errors.New("invalid cascade policy")

	// ErrWorkflowInvalid indicates a workflow step list failed validation.
	ErrWorkflowInvalid = errors.New("invalid workflow")

	// ErrWorkflowFileMissing indicates a custom workflow file does not exist.
	ErrWorkflowFileMissing = errors.New("workflow file not found")

	// ErrWorkflowParse indicates a custom workflow file has invalid YAML/JSON syntax.
	ErrWorkflowParse = errors.New("workflow parse error")

	// ErrCacheUnavailable indicates the workflow cache could not be reached.
	ErrCacheUnavailable = errors.New("workflow cache unavailable")

	// ErrLockTimeout indicates the database lock file stayed held by another process.
	ErrLockTimeout = errors.New("timed out waiting for database lock")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalidStore indicates an invalid store section.
	ErrConfigInvalidStore = errors.New("invalid store configuration")

	// ErrConfigInvalidCache indicates an invalid cache section.
	ErrConfigInvalidCache = errors.New("invalid cache configuration")

	// ErrConfigInvalidWorkflow indicates an invalid workflow section.
	ErrConfigInvalidWorkflow = errors.New("invalid workflow configuration")

	// ErrConfigInvalidTasks indicates an invalid tasks section.
	ErrConfigInvalidTasks = errors.New("invalid tasks configuration")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Validation sub-kinds. Each matches ErrValidation through errors.Is as well
// as its own sentinel.
var (
	// ErrProjectMismatch indicates two tasks that must share a project do not.
	ErrProjectMismatch = fmt.Errorf("%w: tasks belong to different projects", ErrValidation)

	// ErrCreatorImmutable indicates an attempt to change a task's creator.
	ErrCreatorImmutable = fmt.Errorf("%w: creator cannot be changed", ErrValidation)

	// ErrInvalidRelationType indicates a relation type outside the closed set.
	ErrInvalidRelationType = fmt.Errorf("%w: invalid relation type", ErrValidation)
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}
