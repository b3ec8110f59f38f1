package relation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/clock"
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/store"
	"github.com/mrz1836/taskflow/internal/task"
)

var testNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *store.SQLiteStore
	manager *Manager
	clock   *clock.Manual
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	s, err := store.NewMemoryStore(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	c := clock.NewManual(testNow)
	return &fixture{
		store:   s,
		manager: NewManager(task.NewEngine(c), opts...),
		clock:   c,
	}
}

// tx runs fn in a transaction and fails the test on error.
func (f *fixture) tx(t *testing.T, fn func(ctx context.Context, tx store.Tx) error) {
	t.Helper()
	require.NoError(t, f.store.WithTx(context.Background(), fn))
}

// run runs fn in a transaction and returns its error.
func (f *fixture) run(fn func(ctx context.Context, tx store.Tx) error) error {
	return f.store.WithTx(context.Background(), fn)
}

func (f *fixture) project(t *testing.T, id string) {
	t.Helper()
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		return tx.SaveProject(ctx, &domain.Project{ID: id, Name: id, Industry: "other", CreatedAt: testNow})
	})
}

func (f *fixture) task(t *testing.T, id, projectID, parentID string) {
	t.Helper()
	f.clock.Advance(time.Second)
	now := f.clock.Now()
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		return tx.SaveTask(ctx, &domain.Task{
			ID: id, ProjectID: projectID, Title: id, ParentID: parentID,
			Type: constants.TaskTypeSubtask, Status: constants.TaskStatusTodo, Priority: constants.PriorityMedium,
			CreatorID: "user-1", CreatedAt: now, UpdatedAt: now,
		})
	})
}

func (f *fixture) relations(t *testing.T, taskID string) []*domain.Relation {
	t.Helper()
	var rels []*domain.Relation
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var err error
		rels, err = f.manager.Relations(ctx, tx, taskID)
		return err
	})
	return rels
}

func (f *fixture) get(t *testing.T, id string) *domain.Task {
	t.Helper()
	var got *domain.Task
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var err error
		got, err = tx.GetTask(ctx, id)
		return err
	})
	return got
}

func TestAddRelation_MaterializesInverse(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	var rel *domain.Relation
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var created bool
		var err error
		rel, created, err = f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlockedBy)
		require.True(t, created)
		return err
	})

	assert.Equal(t, "a", rel.SourceID)
	assert.Equal(t, "b", rel.TargetID)
	assert.NotEmpty(t, rel.PairID)

	fromB := f.relations(t, "b")
	require.Len(t, fromB, 2)
	var inverse *domain.Relation
	for _, r := range fromB {
		if r.Type == constants.RelationBlocking {
			inverse = r
		}
	}
	require.NotNil(t, inverse)
	assert.Equal(t, "b", inverse.SourceID)
	assert.Equal(t, "a", inverse.TargetID)
	assert.Equal(t, rel.PairID, inverse.PairID)
}

func TestAddRelation_ClonedFromHasNoInverse(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		rel, _, err := f.manager.AddRelation(ctx, tx, "b", "a", constants.RelationClonedFrom)
		if err == nil {
			assert.Empty(t, rel.PairID)
		}
		return err
	})

	assert.Len(t, f.relations(t, "a"), 1)
}

func TestAddRelation_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	var first, second *domain.Relation
	var created bool
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var err error
		first, _, err = f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlocking)
		return err
	})
	before := len(f.relations(t, "a"))

	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var err error
		second, created, err = f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlocking)
		return err
	})

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.relations(t, "a"), before)
}

func TestAddRelation_InverseSpellingIsSameEdge(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		_, _, err := f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlockedBy)
		return err
	})
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		_, created, err := f.manager.AddRelation(ctx, tx, "b", "a", constants.RelationBlocking)
		assert.False(t, created)
		return err
	})

	assert.Len(t, f.relations(t, "a"), 2)
}

func TestAddRelation_Errors(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.project(t, "p2")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")
	f.task(t, "x", "p2", "")

	tests := []struct {
		name           string
		source, target string
		typ            constants.RelationType
		kind           error
	}{
		{"self relation", "a", "a", constants.RelationBlockedBy, tferrors.ErrSelfRelation},
		{"missing source", "ghost", "a", constants.RelationBlockedBy, tferrors.ErrTaskNotFound},
		{"missing target", "a", "ghost", constants.RelationClonedFrom, tferrors.ErrTaskNotFound},
		{"other project", "a", "x", constants.RelationBlockedBy, tferrors.ErrProjectMismatch},
		{"unknown type", "a", "b", "blocked_by", tferrors.ErrInvalidRelationType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.run(func(ctx context.Context, tx store.Tx) error {
				_, _, err := f.manager.AddRelation(ctx, tx, tt.source, tt.target, tt.typ)
				return err
			})
			require.ErrorIs(t, err, tt.kind)
		})
	}

	assert.Empty(t, f.relations(t, "a"))
}

func TestAddRelation_BlockingCycle(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	for _, id := range []string{"a", "b", "c"} {
		f.task(t, id, "p1", "")
	}

	// a waits on b, b waits on c.
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		if _, _, err := f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlockedBy); err != nil {
			return err
		}
		_, _, err := f.manager.AddRelation(ctx, tx, "c", "b", constants.RelationBlocking)
		return err
	})

	tests := []struct {
		name           string
		source, target string
		typ            constants.RelationType
	}{
		{"direct", "b", "a", constants.RelationBlockedBy},
		{"transitive", "c", "a", constants.RelationBlockedBy},
		{"transitive via blocking", "a", "c", constants.RelationBlocking},
		{"both directions", "a", "b", constants.RelationBlocking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.run(func(ctx context.Context, tx store.Tx) error {
				_, _, err := f.manager.AddRelation(ctx, tx, tt.source, tt.target, tt.typ)
				return err
			})
			require.ErrorIs(t, err, tferrors.ErrCycle)

			var te *tferrors.TaskError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, constants.FieldRelation, te.Field)
		})
	}

	// ClonedFrom is not part of the blocking graph.
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		_, _, err := f.manager.AddRelation(ctx, tx, "c", "a", constants.RelationClonedFrom)
		return err
	})
}

func TestRemoveRelation(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		_, _, err := f.manager.AddRelation(ctx, tx, "a", "b", constants.RelationBlockedBy)
		return err
	})

	var removed []*domain.Relation
	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		var err error
		removed, err = f.manager.RemoveRelation(ctx, tx, "b", "a", constants.RelationBlocking)
		return err
	})
	assert.Len(t, removed, 2, "removing either half removes the pair")
	assert.Empty(t, f.relations(t, "a"))
	assert.Empty(t, f.relations(t, "b"))
}

func TestRemoveRelation_Absent(t *testing.T) {
	f := newFixture(t)
	f.project(t, "p1")
	f.task(t, "a", "p1", "")
	f.task(t, "b", "p1", "")

	f.tx(t, func(ctx context.Context, tx store.Tx) error {
		removed, err := f.manager.RemoveRelation(ctx, tx, "a", "b", constants.RelationClonedFrom)
		assert.Empty(t, removed)
		if err != nil {
			return err
		}
		removed, err = f.manager.RemoveRelation(ctx, tx, "ghost", "b", constants.RelationBlockedBy)
		assert.Empty(t, removed)
		return err
	})

	err := f.run(func(ctx context.Context, tx store.Tx) error {
		_, err := f.manager.RemoveRelation(ctx, tx, "a", "b", "related")
		return err
	})
	assert.ErrorIs(t, err, tferrors.ErrInvalidRelationType)
}

func TestRelations_MissingTask(t *testing.T) {
	f := newFixture(t)
	err := f.run(func(ctx context.Context, tx store.Tx) error {
		_, err := f.manager.Relations(ctx, tx, "ghost")
		return err
	})
	assert.ErrorIs(t, err, tferrors.ErrTaskNotFound)
}
