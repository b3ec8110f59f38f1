package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

const relationColumns = `id, source_id, target_id, type, pair_id, created_at`

func scanRelation(row rowScanner) (*domain.Relation, error) {
	var (
		r         domain.Relation
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.SourceID, &r.TargetID, &r.Type, &r.PairID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (x *sqliteTx) queryRelations(ctx context.Context, query string, args ...any) ([]*domain.Relation, error) {
	rows, err := x.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	relations := []*domain.Relation{}
	for rows.Next() {
		r, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relations: %w", err)
	}
	return relations, nil
}

// GetRelations returns every relation touching a task.
func (x *sqliteTx) GetRelations(ctx context.Context, taskID string) ([]*domain.Relation, error) {
	return x.queryRelations(ctx, `SELECT `+relationColumns+`
		FROM task_relations
		WHERE source_id = ? OR target_id = ?
		ORDER BY type, target_id, source_id
	`, taskID, taskID)
}

// ListProjectRelations returns a project's relations, optionally filtered by type.
func (x *sqliteTx) ListProjectRelations(ctx context.Context, projectID string, types ...constants.RelationType) ([]*domain.Relation, error) {
	query := `SELECT ` + relationColumns + ` FROM task_relations WHERE project_id = ?`
	args := []any{projectID}
	if len(types) > 0 {
		query += ` AND type IN (?` + strings.Repeat(", ?", len(types)-1) + `)`
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += ` ORDER BY source_id, type, target_id`
	return x.queryRelations(ctx, query, args...)
}

// FindRelation returns the relation identified by key.
func (x *sqliteTx) FindRelation(ctx context.Context, key domain.RelationKey) (*domain.Relation, error) {
	r, err := scanRelation(x.tx.QueryRowContext(ctx, `SELECT `+relationColumns+`
		FROM task_relations
		WHERE source_id = ? AND target_id = ? AND type = ?
	`, key.SourceID, key.TargetID, string(key.Type)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s %s", tferrors.ErrRelationNotFound, key.SourceID, key.Type, key.TargetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query relation: %w", err)
	}
	return r, nil
}

// SaveRelation inserts a relation. The project is taken from the source task.
func (x *sqliteTx) SaveRelation(ctx context.Context, r *domain.Relation) error {
	res, err := x.tx.ExecContext(ctx, `
		INSERT INTO task_relations (id, project_id, source_id, target_id, type, pair_id, created_at)
		SELECT ?, project_id, ?, ?, ?, ?, ? FROM tasks WHERE id = ?
	`, r.ID, r.SourceID, r.TargetID, string(r.Type), r.PairID, formatTime(r.CreatedAt), r.SourceID)
	if err != nil {
		return fmt.Errorf("failed to insert relation %s: %w", r.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return tferrors.NewTaskError(tferrors.ErrTaskNotFound, r.SourceID, "", "")
	}
	return nil
}

// DeleteRelation removes a relation by id.
func (x *sqliteTx) DeleteRelation(ctx context.Context, id string) error {
	res, err := x.tx.ExecContext(ctx, `DELETE FROM task_relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete relation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", tferrors.ErrRelationNotFound, id)
	}
	return nil
}
