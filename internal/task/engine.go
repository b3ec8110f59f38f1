package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/taskflow/internal/clock"
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// Engine applies status changes and builds the activity records that audit
// them.
//
// Any canonical status may move to any other canonical status; done and
// delivered can be reopened. When the engine carries a board it also reports
// which step a task occupies, but the board never forbids a move.
//
// An Engine is safe for concurrent use.
type Engine struct {
	clock clock.Clock
	board *workflow.Board
	newID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBoard enables step tracking against a project's workflow board.
func WithBoard(b *workflow.Board) EngineOption {
	return func(e *Engine) {
		e.board = b
	}
}

// WithIDGenerator replaces the uuid generator used for activity ids.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an engine. A nil clock uses the system clock.
func NewEngine(c clock.Clock, opts ...EngineOption) *Engine {
	if c == nil {
		c = clock.RealClock{}
	}
	e := &Engine{clock: c, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ForBoard returns a copy of the engine tracking steps on b.
func (e *Engine) ForBoard(b *workflow.Board) *Engine {
	clone := *e
	clone.board = b
	return &clone
}

// Board returns the board the engine tracks, or nil.
func (e *Engine) Board() *workflow.Board {
	return e.board
}

// ApplyStatusChange moves t to newStatus on behalf of actorID.
//
// On success it returns an updated copy of t and the matching activity record;
// t itself is never modified, so a rejected change leaves no trace. Asking for
// the status the task already has is a no-op: the task copy comes back with a
// nil activity and no error.
func (e *Engine) ApplyStatusChange(t *domain.Task, newStatus constants.TaskStatus, actorID string) (*domain.Task, *domain.Activity, error) {
	if t == nil {
		return nil, nil, tferrors.NewTaskError(tferrors.ErrValidation, "", "", "task is nil")
	}
	if !newStatus.IsValid() {
		return nil, nil, tferrors.NewTaskError(tferrors.ErrInvalidStatus, t.ID, constants.FieldStatus, "unknown status %q", newStatus)
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, nil, tferrors.NewTaskError(tferrors.ErrValidation, t.ID, "actor_id", "actor is required")
	}

	updated := t.Clone()
	if t.Status == newStatus {
		return updated, nil, nil
	}

	now := e.clock.Now()
	updated.Status = newStatus
	updated.UpdatedAt = now

	activity := e.newActivity(now, t.ID, actorID, constants.ActionStatusChanged,
		constants.FieldStatus, t.Status.String(), newStatus.String())

	return updated, activity, nil
}

// CurrentStep returns the board step t occupies. It is false when the engine
// has no board or no step maps to the task's status.
func (e *Engine) CurrentStep(t *domain.Task) (domain.StepDefinition, bool) {
	if e.board == nil || t == nil {
		return domain.StepDefinition{}, false
	}
	return e.board.StepFor(t.Status)
}

// Activity builds an audit record stamped with the engine's clock.
func (e *Engine) Activity(taskID, actorID, action, field, oldValue, newValue string) *domain.Activity {
	return e.newActivity(e.clock.Now(), taskID, actorID, action, field, oldValue, newValue)
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// NewID returns a fresh identifier from the engine's generator.
func (e *Engine) NewID() string {
	return e.newID()
}

func (e *Engine) newActivity(at time.Time, taskID, actorID, action, field, oldValue, newValue string) *domain.Activity {
	return &domain.Activity{
		ID:        e.newID(),
		TaskID:    taskID,
		UserID:    actorID,
		Action:    action,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: at,
	}
}
