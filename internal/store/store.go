// Package store provides persistence for projects, tasks, relations and
// activity records.
//
// Every read and write happens inside a transaction obtained from
// Transactor.WithTx. A mutation that spans several rows (validate, mutate
// edges, mutate status, write the audit record) runs in one WithTx call and
// is either committed as a whole or rolled back as a whole.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors,
//     internal/ctxutil, std lib
//   - MUST NOT import: internal/task, internal/relation, internal/tracker
package store

import (
	"context"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
)

// Tx is the persistence surface available inside one transaction.
// Lookups of missing rows return ErrTaskNotFound, ErrProjectNotFound or
// ErrRelationNotFound.
type Tx interface {
	// GetProject returns a project by id.
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	// SaveProject inserts or replaces a project.
	SaveProject(ctx context.Context, p *domain.Project) error

	// GetTask returns a task by id.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// GetAncestors returns the parent chain of a task, nearest first.
	// The walk stops after the store's maximum ancestor depth.
	GetAncestors(ctx context.Context, id string) ([]*domain.Task, error)

	// GetChildren returns the direct children of a task ordered by creation.
	GetChildren(ctx context.Context, id string) ([]*domain.Task, error)

	// CountTasks returns the number of tasks in a project.
	CountTasks(ctx context.Context, projectID string) (int, error)

	// ListTasks returns a project's tasks ordered by creation.
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)

	// SaveTask inserts or replaces a task.
	SaveTask(ctx context.Context, t *domain.Task) error

	// DeleteTask removes a task row. Relations and activities of the task
	// are removed with it.
	DeleteTask(ctx context.Context, id string) error

	// GetRelations returns every relation where the task is source or
	// target, ordered by type then target id.
	GetRelations(ctx context.Context, taskID string) ([]*domain.Relation, error)

	// ListProjectRelations returns the project's relations, optionally
	// restricted to the given types.
	ListProjectRelations(ctx context.Context, projectID string, types ...constants.RelationType) ([]*domain.Relation, error)

	// FindRelation returns the relation with the given (source, target, type).
	FindRelation(ctx context.Context, key domain.RelationKey) (*domain.Relation, error)

	// SaveRelation inserts a relation.
	SaveRelation(ctx context.Context, r *domain.Relation) error

	// DeleteRelation removes a relation by id.
	DeleteRelation(ctx context.Context, id string) error

	// AppendActivity writes an activity record. Records are never updated.
	AppendActivity(ctx context.Context, a *domain.Activity) error

	// ListActivities returns a task's activity records, oldest first.
	ListActivities(ctx context.Context, taskID string) ([]*domain.Activity, error)
}

// Transactor runs a function inside a transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Store is a Transactor that owns a connection.
type Store interface {
	Transactor
	Close() error
}
