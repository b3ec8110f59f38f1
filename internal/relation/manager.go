// Package relation maintains the task graph: typed relations between tasks
// and the parent/child hierarchy.
//
// Blocking relations are materialized in both directions. Adding
// "A BlockedBy B" also stores "B Blocking A", both halves share a pair id, and
// removing either half removes both. ClonedFrom has no inverse.
//
// All operations run against a caller-provided store.Tx; the caller owns the
// transaction boundary and must roll back on error.
package relation

import (
	"context"
	"errors"
	"sort"

	"github.com/gammazero/toposort"
	"github.com/rs/zerolog"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/store"
	"github.com/mrz1836/taskflow/internal/task"
)

// Manager enforces relation and hierarchy integrity.
type Manager struct {
	engine   *task.Engine
	maxDepth int
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAncestorDepth caps parent chain walks regardless of project size.
func WithMaxAncestorDepth(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxDepth = n
		}
	}
}

// NewManager creates a manager. The engine supplies ids and timestamps.
func NewManager(engine *task.Engine, opts ...Option) *Manager {
	m := &Manager{engine: engine, maxDepth: constants.DefaultMaxAncestorDepth}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddRelation records "source <typ> target".
//
// Adding an edge that already exists is not an error: the existing edge is
// returned with created == false. For blocking types the inverse half is
// ensured as well. A blocking edge that would close a blocking cycle fails
// with ErrCycle.
func (m *Manager) AddRelation(ctx context.Context, tx store.Tx, sourceID, targetID string, typ constants.RelationType) (*domain.Relation, bool, error) {
	if !typ.IsValid() {
		return nil, false, tferrors.NewTaskError(tferrors.ErrInvalidRelationType, sourceID, constants.FieldRelation, "unknown relation type %q", typ)
	}
	if sourceID == targetID {
		return nil, false, tferrors.NewTaskError(tferrors.ErrSelfRelation, sourceID, constants.FieldRelation, "")
	}

	source, err := tx.GetTask(ctx, sourceID)
	if err != nil {
		return nil, false, err
	}
	target, err := tx.GetTask(ctx, targetID)
	if err != nil {
		return nil, false, err
	}
	if source.ProjectID != target.ProjectID {
		return nil, false, tferrors.NewTaskError(tferrors.ErrProjectMismatch, sourceID, constants.FieldRelation,
			"target %s is in project %s, source is in project %s", targetID, target.ProjectID, source.ProjectID)
	}

	key := domain.RelationKey{SourceID: sourceID, TargetID: targetID, Type: typ}
	existing, err := findRelation(ctx, tx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := m.ensureInverse(ctx, tx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if typ.IsBlocking() {
		if err := m.checkBlockingCycle(ctx, tx, source.ProjectID, key); err != nil {
			return nil, false, err
		}
	}

	now := m.engine.Now()
	rel := &domain.Relation{
		ID:        m.engine.NewID(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      typ,
		CreatedAt: now,
	}
	if typ.IsBlocking() {
		rel.PairID = m.engine.NewID()
	}
	if err := tx.SaveRelation(ctx, rel); err != nil {
		return nil, false, err
	}
	if err := m.ensureInverse(ctx, tx, rel); err != nil {
		return nil, false, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "relation").
		Str("relation_id", rel.ID).
		Str("source_id", sourceID).
		Str("target_id", targetID).
		Str("type", typ.String()).
		Msg("relation added")
	return rel, true, nil
}

// ensureInverse stores the mirrored half of a blocking relation if missing.
func (m *Manager) ensureInverse(ctx context.Context, tx store.Tx, rel *domain.Relation) error {
	inverseType, ok := rel.Type.Inverse()
	if !ok {
		return nil
	}
	key := domain.RelationKey{SourceID: rel.TargetID, TargetID: rel.SourceID, Type: inverseType}
	existing, err := findRelation(ctx, tx, key)
	if err != nil || existing != nil {
		return err
	}
	return tx.SaveRelation(ctx, &domain.Relation{
		ID:        m.engine.NewID(),
		SourceID:  key.SourceID,
		TargetID:  key.TargetID,
		Type:      inverseType,
		PairID:    rel.PairID,
		CreatedAt: rel.CreatedAt,
	})
}

// checkBlockingCycle sorts the project's blocking graph with the candidate
// edge added. Every blocking edge is normalized to "blocker before blocked".
func (m *Manager) checkBlockingCycle(ctx context.Context, tx store.Tx, projectID string, candidate domain.RelationKey) error {
	existing, err := tx.ListProjectRelations(ctx, projectID, constants.RelationBlockedBy, constants.RelationBlocking)
	if err != nil {
		return err
	}

	seen := make(map[toposort.Edge]struct{}, len(existing)+1)
	edges := make([]toposort.Edge, 0, len(existing)+1)
	add := func(k domain.RelationKey) {
		e := blockingEdge(k)
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	for _, r := range existing {
		add(r.Key())
	}
	add(candidate)

	if _, err := toposort.Toposort(edges); err != nil {
		return tferrors.NewTaskError(tferrors.ErrCycle, candidate.SourceID, constants.FieldRelation,
			"%s %s %s would close a blocking cycle", candidate.SourceID, candidate.Type, candidate.TargetID)
	}
	return nil
}

func blockingEdge(k domain.RelationKey) toposort.Edge {
	if k.Type == constants.RelationBlockedBy {
		return toposort.Edge{k.TargetID, k.SourceID}
	}
	return toposort.Edge{k.SourceID, k.TargetID}
}

// RemoveRelation deletes "source <typ> target" and its materialized inverse.
// Removing an edge that does not exist is a no-op. It returns the relations
// actually removed.
func (m *Manager) RemoveRelation(ctx context.Context, tx store.Tx, sourceID, targetID string, typ constants.RelationType) ([]*domain.Relation, error) {
	if !typ.IsValid() {
		return nil, tferrors.NewTaskError(tferrors.ErrInvalidRelationType, sourceID, constants.FieldRelation, "unknown relation type %q", typ)
	}

	forward, err := findRelation(ctx, tx, domain.RelationKey{SourceID: sourceID, TargetID: targetID, Type: typ})
	if err != nil {
		return nil, err
	}

	var removed []*domain.Relation
	if forward != nil {
		if err := tx.DeleteRelation(ctx, forward.ID); err != nil {
			return nil, err
		}
		removed = append(removed, forward)
	}

	if inverseType, ok := typ.Inverse(); ok {
		inverse, err := findRelation(ctx, tx, domain.RelationKey{SourceID: targetID, TargetID: sourceID, Type: inverseType})
		if err != nil {
			return nil, err
		}
		// Only the paired half goes with the forward edge. With no forward
		// edge there is nothing to remove.
		if inverse != nil && forward != nil {
			if err := tx.DeleteRelation(ctx, inverse.ID); err != nil {
				return nil, err
			}
			removed = append(removed, inverse)
		}
	}

	return removed, nil
}

// Relations returns every relation touching a task, ordered by type then
// target id.
func (m *Manager) Relations(ctx context.Context, tx store.Tx, taskID string) ([]*domain.Relation, error) {
	if _, err := tx.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	rels, err := tx.GetRelations(ctx, taskID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rels, func(i, j int) bool {
		if rels[i].Type != rels[j].Type {
			return rels[i].Type < rels[j].Type
		}
		return rels[i].TargetID < rels[j].TargetID
	})
	return rels, nil
}

// findRelation returns nil, nil when the relation does not exist.
func findRelation(ctx context.Context, tx store.Tx, key domain.RelationKey) (*domain.Relation, error) {
	rel, err := tx.FindRelation(ctx, key)
	if errors.Is(err, tferrors.ErrRelationNotFound) {
		return nil, nil //nolint:nilnil // absence is not an error here
	}
	return rel, err
}
