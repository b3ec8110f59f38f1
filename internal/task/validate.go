// Package task provides the task entity rules and the status transition engine.
//
// This package enforces the structural invariants of a single task (required
// fields, enumerations, creator immutability), detects cycles in the parent
// chain, and applies status changes together with their audit record.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors,
//     internal/workflow, internal/clock, std lib
//   - MUST NOT import: internal/store, internal/relation, internal/cli
package task

import (
	"strings"
	"unicode/utf8"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

// Defaults applied to a creation candidate that leaves a field unset.
const (
	DefaultType     = constants.TaskTypeSubtask
	DefaultStatus   = constants.TaskStatusTodo
	DefaultPriority = constants.PriorityMedium
)

// FieldChange is one field a patch actually changed.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// ApplyDefaults returns in with zero-valued type, status and priority
// replaced by their defaults and the title trimmed.
func ApplyDefaults(in domain.TaskInput) domain.TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	if in.Type == "" {
		in.Type = DefaultType
	}
	if in.Status == "" {
		in.Status = DefaultStatus
	}
	if in.Priority == "" {
		in.Priority = DefaultPriority
	}
	return in
}

// ValidateFields applies defaults to a creation candidate and checks every
// field. It returns the task the candidate describes; the caller assigns the
// id and timestamps.
func ValidateFields(in domain.TaskInput) (*domain.Task, error) {
	in = ApplyDefaults(in)

	if strings.TrimSpace(in.ProjectID) == "" {
		return nil, tferrors.NewTaskError(tferrors.ErrValidation, "", constants.FieldProject, "project is required")
	}
	if strings.TrimSpace(in.CreatorID) == "" {
		return nil, tferrors.NewTaskError(tferrors.ErrValidation, "", constants.FieldCreator, "creator is required")
	}
	if err := validateTitle("", in.Title); err != nil {
		return nil, err
	}
	if err := validateType("", in.Type); err != nil {
		return nil, err
	}
	if err := validatePriority("", in.Priority); err != nil {
		return nil, err
	}
	if !in.Status.IsValid() {
		return nil, tferrors.NewTaskError(tferrors.ErrInvalidStatus, "", constants.FieldStatus, "unknown status %q", in.Status)
	}

	return &domain.Task{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
		CreatorID:   in.CreatorID,
		ParentID:    in.ParentID,
		TeamID:      in.TeamID,
	}, nil
}

// ValidatePatch checks a patch against the task it would be applied to.
// A patch that names the current creator is accepted; any other creator fails
// with ErrCreatorImmutable.
func ValidatePatch(current *domain.Task, patch domain.TaskPatch) error {
	if current == nil {
		return tferrors.NewTaskError(tferrors.ErrValidation, "", "", "task is nil")
	}
	if patch.CreatorID != nil && *patch.CreatorID != current.CreatorID {
		return tferrors.NewTaskError(tferrors.ErrCreatorImmutable, current.ID, constants.FieldCreator,
			"cannot change %q to %q", current.CreatorID, *patch.CreatorID)
	}
	if patch.Title != nil {
		if err := validateTitle(current.ID, strings.TrimSpace(*patch.Title)); err != nil {
			return err
		}
	}
	if patch.Type != nil {
		if err := validateType(current.ID, *patch.Type); err != nil {
			return err
		}
	}
	if patch.Priority != nil {
		if err := validatePriority(current.ID, *patch.Priority); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPatch validates patch and returns an updated copy of current along
// with the fields that actually changed. current is not modified. Setting a
// field to its present value is not a change.
func ApplyPatch(current *domain.Task, patch domain.TaskPatch) (*domain.Task, []FieldChange, error) {
	if err := ValidatePatch(current, patch); err != nil {
		return nil, nil, err
	}

	updated := current.Clone()
	var changes []FieldChange

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patchField(&changes, constants.FieldTitle, &updated.Title, &title)
	}
	patchField(&changes, constants.FieldDescription, &updated.Description, patch.Description)
	patchField(&changes, constants.FieldType, &updated.Type, patch.Type)
	patchField(&changes, constants.FieldPriority, &updated.Priority, patch.Priority)
	patchField(&changes, constants.FieldAssignee, &updated.AssigneeID, patch.AssigneeID)
	patchField(&changes, constants.FieldTeam, &updated.TeamID, patch.TeamID)

	return updated, changes, nil
}

func patchField[T ~string](changes *[]FieldChange, field string, dst, src *T) {
	if src == nil || *dst == *src {
		return
	}
	*changes = append(*changes, FieldChange{Field: field, OldValue: string(*dst), NewValue: string(*src)})
	*dst = *src
}

func validateTitle(taskID, title string) error {
	if title == "" {
		return tferrors.NewTaskError(tferrors.ErrValidation, taskID, constants.FieldTitle, "title is required")
	}
	if n := utf8.RuneCountInString(title); n > constants.MaxTitleLength {
		return tferrors.NewTaskError(tferrors.ErrValidation, taskID, constants.FieldTitle,
			"title is %d characters, maximum is %d", n, constants.MaxTitleLength)
	}
	return nil
}

func validateType(taskID string, typ constants.TaskType) error {
	if !typ.IsValid() {
		return tferrors.NewTaskError(tferrors.ErrValidation, taskID, constants.FieldType, "unknown type %q", typ)
	}
	return nil
}

func validatePriority(taskID string, p constants.Priority) error {
	if !p.IsValid() {
		return tferrors.NewTaskError(tferrors.ErrValidation, taskID, constants.FieldPriority, "unknown priority %q", p)
	}
	return nil
}
