package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/store"
	"github.com/mrz1836/taskflow/internal/task"
)

// Reparent makes newParentID the parent of taskID, or detaches the task when
// newParentID is empty. It returns the saved task and the previous parent id.
//
// The new parent must be in the same project and must not be the task itself
// or one of its descendants (ErrCycle).
func (m *Manager) Reparent(ctx context.Context, tx store.Tx, taskID, newParentID string) (*domain.Task, string, error) {
	current, err := tx.GetTask(ctx, taskID)
	if err != nil {
		return nil, "", err
	}
	oldParentID := current.ParentID

	if newParentID != "" {
		if err := m.checkParent(ctx, tx, current, newParentID); err != nil {
			return nil, "", err
		}
	}

	if oldParentID == newParentID {
		return current, oldParentID, nil
	}

	updated := current.Clone()
	updated.ParentID = newParentID
	updated.UpdatedAt = m.engine.Now()
	if err := tx.SaveTask(ctx, updated); err != nil {
		return nil, "", err
	}
	return updated, oldParentID, nil
}

// CheckParent validates parentID as the parent of a task that does not exist
// yet. The parent must exist and be in projectID.
func (m *Manager) CheckParent(ctx context.Context, tx store.Tx, projectID, parentID string) error {
	parent, err := tx.GetTask(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ProjectID != projectID {
		return tferrors.NewTaskError(tferrors.ErrProjectMismatch, "", constants.FieldParent,
			"parent %s is in project %s, not %s", parentID, parent.ProjectID, projectID)
	}
	return nil
}

func (m *Manager) checkParent(ctx context.Context, tx store.Tx, t *domain.Task, parentID string) error {
	if parentID == t.ID {
		return tferrors.NewTaskError(tferrors.ErrCycle, t.ID, constants.FieldParent, "task cannot be its own parent")
	}
	if err := m.CheckParent(ctx, tx, t.ProjectID, parentID); err != nil {
		var te *tferrors.TaskError
		if errors.As(err, &te) && te.TaskID == "" {
			te.TaskID = t.ID
		}
		return err
	}

	limit, err := tx.CountTasks(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if limit > m.maxDepth {
		limit = m.maxDepth
	}

	lookup, err := ancestorLookup(ctx, tx, parentID)
	if err != nil {
		return err
	}
	cycle, err := task.WouldCreateCycle(ctx, t.ID, parentID, lookup, limit)
	if err != nil {
		return err
	}
	if cycle {
		return tferrors.NewTaskError(tferrors.ErrCycle, t.ID, constants.FieldParent,
			"%s is a descendant of %s", parentID, t.ID)
	}
	return nil
}

// ancestorLookup loads the parent chain above id in one store call and
// answers parent lookups from it. Tasks past the store's depth bound are
// read one at a time.
func ancestorLookup(ctx context.Context, tx store.Tx, id string) (task.ParentLookup, error) {
	start, err := tx.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	ancestors, err := tx.GetAncestors(ctx, id)
	if err != nil {
		return nil, err
	}

	parents := make(map[string]string, len(ancestors)+1)
	parents[start.ID] = start.ParentID
	for _, a := range ancestors {
		parents[a.ID] = a.ParentID
	}

	return task.ParentLookupFunc(func(ctx context.Context, taskID string) (string, error) {
		if parent, ok := parents[taskID]; ok {
			return parent, nil
		}
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return "", err
		}
		return t.ParentID, nil
	}), nil
}

// CascadeReport lists what CascadeOnDelete changed so the caller can record
// matching activity.
type CascadeReport struct {
	// DeletedTaskIDs are removed tasks, descendants before ancestors; the
	// requested task is last.
	DeletedTaskIDs []string `json:"deleted_task_ids"`

	// OrphanedTaskIDs are children detached under the orphan policy.
	OrphanedTaskIDs []string `json:"orphaned_task_ids"`

	// RemovedRelations are the relations deleted with the tasks.
	RemovedRelations []*domain.Relation `json:"removed_relations"`
}

// RelationIDs returns the ids of the removed relations.
func (r *CascadeReport) RelationIDs() []string {
	ids := make([]string, len(r.RemovedRelations))
	for i, rel := range r.RemovedRelations {
		ids[i] = rel.ID
	}
	return ids
}

// Deleted reports whether taskID was removed by the cascade.
func (r *CascadeReport) Deleted(taskID string) bool {
	for _, id := range r.DeletedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// CascadeOnDelete deletes a task together with every relation touching it.
// Direct children are detached under CascadeOrphan (the default when policy
// is empty) or deleted with their own subtrees under CascadeRecursive.
func (m *Manager) CascadeOnDelete(ctx context.Context, tx store.Tx, taskID string, policy constants.CascadePolicy) (*CascadeReport, error) {
	if policy == "" {
		policy = constants.CascadeOrphan
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("%w: %q", tferrors.ErrInvalidPolicy, policy)
	}
	if _, err := tx.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	c := &cascade{
		manager: m,
		tx:      tx,
		policy:  policy,
		visited: make(map[string]bool),
		removed: make(map[string]bool),
		report: &CascadeReport{
			DeletedTaskIDs:   []string{},
			OrphanedTaskIDs:  []string{},
			RemovedRelations: []*domain.Relation{},
		},
	}
	if err := c.deleteTask(ctx, taskID); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "relation").
		Str("task_id", taskID).
		Str("policy", policy.String()).
		Int("deleted", len(c.report.DeletedTaskIDs)).
		Int("orphaned", len(c.report.OrphanedTaskIDs)).
		Int("relations_removed", len(c.report.RemovedRelations)).
		Msg("task deleted")
	return c.report, nil
}

type cascade struct {
	manager *Manager
	tx      store.Tx
	policy  constants.CascadePolicy
	visited map[string]bool
	removed map[string]bool
	report  *CascadeReport
}

func (c *cascade) deleteTask(ctx context.Context, id string) error {
	if c.visited[id] {
		return nil
	}
	c.visited[id] = true

	children, err := c.tx.GetChildren(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if c.policy == constants.CascadeRecursive {
			if err := c.deleteTask(ctx, child.ID); err != nil {
				return err
			}
			continue
		}
		orphan := child.Clone()
		orphan.ParentID = ""
		orphan.UpdatedAt = c.manager.engine.Now()
		if err := c.tx.SaveTask(ctx, orphan); err != nil {
			return err
		}
		c.report.OrphanedTaskIDs = append(c.report.OrphanedTaskIDs, child.ID)
	}

	rels, err := c.tx.GetRelations(ctx, id)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if c.removed[rel.ID] {
			continue
		}
		if err := c.tx.DeleteRelation(ctx, rel.ID); err != nil {
			return err
		}
		c.removed[rel.ID] = true
		c.report.RemovedRelations = append(c.report.RemovedRelations, rel)
	}

	if err := c.tx.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.report.DeletedTaskIDs = append(c.report.DeletedTaskIDs, id)
	return nil
}
