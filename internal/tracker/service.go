// Package tracker is the host of the task graph: it wraps every mutation in a
// single store transaction, delegates rules to the task and relation
// packages, and writes the activity records that audit each change.
//
// A mutation either commits fully (task rows, relations, activities) or not
// at all.
package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskflow/internal/clock"
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/projectcfg"
	"github.com/mrz1836/taskflow/internal/relation"
	"github.com/mrz1836/taskflow/internal/store"
	"github.com/mrz1836/taskflow/internal/task"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// Service exposes the task graph operations.
type Service struct {
	store     store.Transactor
	resolver  *projectcfg.Resolver
	engine    *task.Engine
	relations *relation.Manager
	policy    constants.CascadePolicy
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	clock    clock.Clock
	idGen    func() string
	policy   constants.CascadePolicy
	maxDepth int
}

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *serviceOptions) { o.clock = c }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *serviceOptions) { o.idGen = fn }
}

// WithCascadePolicy sets the policy DeleteTask uses when the caller gives none.
func WithCascadePolicy(p constants.CascadePolicy) Option {
	return func(o *serviceOptions) { o.policy = p }
}

// WithMaxAncestorDepth caps parent chain walks.
func WithMaxAncestorDepth(n int) Option {
	return func(o *serviceOptions) { o.maxDepth = n }
}

// New creates a Service.
func New(st store.Transactor, resolver *projectcfg.Resolver, opts ...Option) *Service {
	o := serviceOptions{
		clock:    clock.RealClock{},
		policy:   constants.CascadeOrphan,
		maxDepth: constants.DefaultMaxAncestorDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}

	engineOpts := []task.EngineOption{}
	if o.idGen != nil {
		engineOpts = append(engineOpts, task.WithIDGenerator(o.idGen))
	}
	engine := task.NewEngine(o.clock, engineOpts...)

	return &Service{
		store:     st,
		resolver:  resolver,
		engine:    engine,
		relations: relation.NewManager(engine, relation.WithMaxAncestorDepth(o.maxDepth)),
		policy:    o.policy,
	}
}

// ProjectInput describes a project to create. Steps overrides the industry
// template when non-empty.
type ProjectInput struct {
	Name     string
	Industry string
	Steps    []domain.StepDefinition
}

// CreateProject creates a project seeded with its workflow steps.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, tferrors.NewTaskError(tferrors.ErrValidation, "", "name", "project name is required")
	}
	industry := strings.TrimSpace(in.Industry)
	steps, err := s.resolver.SeedSteps(industry, in.Steps)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		ID:        s.engine.NewID(),
		Name:      name,
		Industry:  industry,
		Workflow:  steps,
		CreatedAt: s.engine.Now(),
	}
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.SaveProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx, "create_project").Debug().Str("project_id", p.ID).Msg("project created")
	return p, nil
}

// Project returns a project.
func (s *Service) Project(ctx context.Context, id string) (*domain.Project, error) {
	var p *domain.Project
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		p, err = tx.GetProject(ctx, id)
		return err
	})
	return p, err
}

// CreateTask validates and stores a new task and records its creation.
func (s *Service) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	t, err := task.ValidateFields(in)
	if err != nil {
		return nil, s.rejected(ctx, "create_task", "", err)
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetProject(ctx, t.ProjectID); err != nil {
			return err
		}
		if t.ParentID != "" {
			if err := s.relations.CheckParent(ctx, tx, t.ProjectID, t.ParentID); err != nil {
				return err
			}
		}

		now := s.engine.Now()
		t.ID = s.engine.NewID()
		t.CreatedAt = now
		t.UpdatedAt = now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		return tx.AppendActivity(ctx, s.engine.Activity(t.ID, t.CreatorID, constants.ActionCreated, "", "", t.Title))
	})
	if err != nil {
		return nil, s.rejected(ctx, "create_task", "", err)
	}

	s.committed(ctx, "create_task", t, t.CreatorID)
	return t, nil
}

// UpdateTask applies a patch and records one activity per changed field.
func (s *Service) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch, actorID string) (*domain.Task, error) {
	if err := requireActor(id, actorID); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		current, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		next, changes, err := task.ApplyPatch(current, patch)
		if err != nil {
			return err
		}
		updated = next
		if len(changes) == 0 {
			return nil
		}

		updated.UpdatedAt = s.engine.Now()
		if err := tx.SaveTask(ctx, updated); err != nil {
			return err
		}
		for _, c := range changes {
			a := s.engine.Activity(id, actorID, constants.ActionUpdated, c.Field, c.OldValue, c.NewValue)
			if err := tx.AppendActivity(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(ctx, "update_task", id, err)
	}

	s.committed(ctx, "update_task", updated, actorID)
	return updated, nil
}

// StatusChange is the outcome of ChangeStatus.
type StatusChange struct {
	Task *domain.Task `json:"task"`
	// Activity is nil when the task already had the requested status.
	Activity *domain.Activity `json:"activity,omitempty"`
	// Step is the board column the task now occupies, if any.
	Step *domain.StepDefinition `json:"step,omitempty"`
}

// ChangeStatus moves a task to a canonical status.
func (s *Service) ChangeStatus(ctx context.Context, id string, status constants.TaskStatus, actorID string) (*StatusChange, error) {
	var out StatusChange
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		current, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}

		engine := s.engine
		if board, err := s.board(ctx, tx, current.ProjectID); err == nil {
			engine = engine.ForBoard(board)
		} else {
			s.logger(ctx, "change_status").Warn().Err(err).Str("project_id", current.ProjectID).Msg("board unavailable, step tracking off")
		}

		updated, activity, err := engine.ApplyStatusChange(current, status, actorID)
		if err != nil {
			return err
		}
		out.Task = updated
		out.Activity = activity
		if step, ok := engine.CurrentStep(updated); ok {
			out.Step = &step
		}
		if activity == nil {
			return nil
		}

		if err := tx.SaveTask(ctx, updated); err != nil {
			return err
		}
		return tx.AppendActivity(ctx, activity)
	})
	if err != nil {
		return nil, s.rejected(ctx, "change_status", id, err)
	}

	s.committed(ctx, "change_status", out.Task, actorID)
	return &out, nil
}

// AddRelation links two tasks. Re-adding an existing relation returns it
// without recording anything.
func (s *Service) AddRelation(ctx context.Context, sourceID, targetID string, typ constants.RelationType, actorID string) (*domain.Relation, error) {
	if err := requireActor(sourceID, actorID); err != nil {
		return nil, err
	}

	var rel *domain.Relation
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var (
			created bool
			err     error
		)
		rel, created, err = s.relations.AddRelation(ctx, tx, sourceID, targetID, typ)
		if err != nil || !created {
			return err
		}
		return tx.AppendActivity(ctx, s.engine.Activity(sourceID, actorID,
			constants.ActionRelationAdded, constants.FieldRelation, "", describeRelation(rel)))
	})
	if err != nil {
		return nil, s.rejected(ctx, "add_relation", sourceID, err)
	}

	s.logger(ctx, "add_relation").Debug().
		Str("task_id", sourceID).
		Str("actor_id", actorID).
		Str("relation_id", rel.ID).
		Msg("mutation committed")
	return rel, nil
}

// RemoveRelation unlinks two tasks. Removing a missing relation is a no-op.
func (s *Service) RemoveRelation(ctx context.Context, sourceID, targetID string, typ constants.RelationType, actorID string) ([]*domain.Relation, error) {
	if err := requireActor(sourceID, actorID); err != nil {
		return nil, err
	}

	var removed []*domain.Relation
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		removed, err = s.relations.RemoveRelation(ctx, tx, sourceID, targetID, typ)
		if err != nil || len(removed) == 0 {
			return err
		}
		return tx.AppendActivity(ctx, s.engine.Activity(sourceID, actorID,
			constants.ActionRelationRemoved, constants.FieldRelation, describeRelation(removed[0]), ""))
	})
	if err != nil {
		return nil, s.rejected(ctx, "remove_relation", sourceID, err)
	}

	s.logger(ctx, "remove_relation").Debug().
		Str("task_id", sourceID).
		Str("actor_id", actorID).
		Int("removed", len(removed)).
		Msg("mutation committed")
	return removed, nil
}

// Reparent moves a task under a new parent, or detaches it when parentID is
// empty.
func (s *Service) Reparent(ctx context.Context, id, parentID, actorID string) (*domain.Task, error) {
	if err := requireActor(id, actorID); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var (
			oldParentID string
			err         error
		)
		updated, oldParentID, err = s.relations.Reparent(ctx, tx, id, parentID)
		if err != nil || oldParentID == updated.ParentID {
			return err
		}
		return tx.AppendActivity(ctx, s.engine.Activity(id, actorID,
			constants.ActionReparented, constants.FieldParent, oldParentID, updated.ParentID))
	})
	if err != nil {
		return nil, s.rejected(ctx, "reparent", id, err)
	}

	s.committed(ctx, "reparent", updated, actorID)
	return updated, nil
}

// DeleteTask deletes a task with its relations and handles its children per
// policy (the service default when empty). Surviving tasks that lost a
// relation or their parent get an activity record.
func (s *Service) DeleteTask(ctx context.Context, id string, policy constants.CascadePolicy, actorID string) (*relation.CascadeReport, error) {
	if err := requireActor(id, actorID); err != nil {
		return nil, err
	}
	if policy == "" {
		policy = s.policy
	}

	var report *relation.CascadeReport
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		report, err = s.relations.CascadeOnDelete(ctx, tx, id, policy)
		if err != nil {
			return err
		}

		for _, rel := range report.RemovedRelations {
			// Paired halves are recorded on their own source; an unpaired
			// relation whose source went away is recorded on its target.
			owner := rel.SourceID
			if report.Deleted(owner) {
				if rel.PairID != "" || report.Deleted(rel.TargetID) {
					continue
				}
				owner = rel.TargetID
			}
			a := s.engine.Activity(owner, actorID,
				constants.ActionRelationRemoved, constants.FieldRelation, describeRelation(rel), "")
			if err := tx.AppendActivity(ctx, a); err != nil {
				return err
			}
		}
		for _, childID := range report.OrphanedTaskIDs {
			a := s.engine.Activity(childID, actorID, constants.ActionOrphaned, constants.FieldParent, id, "")
			if err := tx.AppendActivity(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(ctx, "delete_task", id, err)
	}

	s.logger(ctx, "delete_task").Debug().
		Str("task_id", id).
		Str("actor_id", actorID).
		Strs("deleted", report.DeletedTaskIDs).
		Strs("relations_removed", report.RelationIDs()).
		Msg("mutation committed")
	return report, nil
}

// Task returns a task.
func (s *Service) Task(ctx context.Context, id string) (*domain.Task, error) {
	var t *domain.Task
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		t, err = tx.GetTask(ctx, id)
		return err
	})
	return t, err
}

// Tasks returns a project's tasks.
func (s *Service) Tasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetProject(ctx, projectID); err != nil {
			return err
		}
		var err error
		tasks, err = tx.ListTasks(ctx, projectID)
		return err
	})
	return tasks, err
}

// Relations returns every relation touching a task.
func (s *Service) Relations(ctx context.Context, id string) ([]*domain.Relation, error) {
	var rels []*domain.Relation
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		rels, err = s.relations.Relations(ctx, tx, id)
		return err
	})
	return rels, err
}

// Activities returns a task's audit trail, oldest first.
func (s *Service) Activities(ctx context.Context, id string) ([]*domain.Activity, error) {
	var acts []*domain.Activity
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetTask(ctx, id); err != nil {
			return err
		}
		var err error
		acts, err = tx.ListActivities(ctx, id)
		return err
	})
	return acts, err
}

// Board returns a project's tasks grouped into its workflow columns.
func (s *Service) Board(ctx context.Context, projectID string) ([]workflow.Column, error) {
	var cols []workflow.Column
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		board, err := s.board(ctx, tx, projectID)
		if err != nil {
			return err
		}
		tasks, err := tx.ListTasks(ctx, projectID)
		if err != nil {
			return err
		}
		cols = board.Columns(tasks)
		return nil
	})
	return cols, err
}

func (s *Service) board(ctx context.Context, tx store.Tx, projectID string) (*workflow.Board, error) {
	p, err := tx.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.resolver.Board(ctx, p)
}

func (s *Service) logger(ctx context.Context, op string) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "tracker").Str("op", op).Logger()
	return &l
}

func (s *Service) committed(ctx context.Context, op string, t *domain.Task, actorID string) {
	s.logger(ctx, op).Debug().
		Str("task_id", t.ID).
		Str("project_id", t.ProjectID).
		Str("actor_id", actorID).
		Str("status", t.Status.String()).
		Msg("mutation committed")
}

func (s *Service) rejected(ctx context.Context, op, taskID string, err error) error {
	s.logger(ctx, op).Debug().Err(err).Str("task_id", taskID).Msg("mutation rejected")
	return err
}

func requireActor(taskID, actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return tferrors.NewTaskError(tferrors.ErrValidation, taskID, "actor_id", "actor is required")
	}
	return nil
}

func describeRelation(r *domain.Relation) string {
	return fmt.Sprintf("%s %s %s", r.SourceID, r.Type, r.TargetID)
}
