package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

const taskColumns = `t.id, t.project_id, t.title, t.description, t.type, t.status, t.priority,
	t.assignee_id, t.creator_id, t.parent_id, t.team_id, t.created_at, t.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t                    domain.Task
		parent               sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Type, &t.Status, &t.Priority,
		&t.AssigneeID, &t.CreatorID, &parent, &t.TeamID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.ParentID = parent.String
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (x *sqliteTx) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := x.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// GetProject retrieves a project by ID.
func (x *sqliteTx) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var (
		p         domain.Project
		workflow  string
		createdAt string
	)
	err := x.tx.QueryRowContext(ctx, `
		SELECT id, name, industry, workflow, created_at
		FROM projects
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Industry, &workflow, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", tferrors.ErrProjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	if err := json.Unmarshal([]byte(workflow), &p.Workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow of project %s: %w", id, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProject upserts a project.
func (x *sqliteTx) SaveProject(ctx context.Context, p *domain.Project) error {
	steps := p.Workflow
	if steps == nil {
		steps = []domain.StepDefinition{}
	}
	workflow, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}

	_, err = x.tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, industry, workflow, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			workflow = excluded.workflow
	`, p.ID, p.Name, p.Industry, string(workflow), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (x *sqliteTx) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(x.tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tferrors.NewTaskError(tferrors.ErrTaskNotFound, id, "", "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return t, nil
}

// GetAncestors walks the parent chain with a recursive query bounded by the
// store's maximum depth, so a corrupt loop cannot run forever.
func (x *sqliteTx) GetAncestors(ctx context.Context, id string) ([]*domain.Task, error) {
	if _, err := x.GetTask(ctx, id); err != nil {
		return nil, err
	}

	return x.queryTasks(ctx, `
		WITH RECURSIVE chain(id, parent_id, depth) AS (
			SELECT id, parent_id, 0 FROM tasks WHERE id = ?
			UNION ALL
			SELECT p.id, p.parent_id, c.depth + 1
			FROM tasks p JOIN chain c ON p.id = c.parent_id
			WHERE c.depth < ?
		)
		SELECT `+taskColumns+`
		FROM chain c JOIN tasks t ON t.id = c.id
		WHERE c.depth > 0
		ORDER BY c.depth
	`, id, x.maxDepth)
}

// GetChildren returns the direct children of a task.
func (x *sqliteTx) GetChildren(ctx context.Context, id string) ([]*domain.Task, error) {
	return x.queryTasks(ctx, `SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.parent_id = ?
		ORDER BY t.created_at, t.id
	`, id)
}

// CountTasks returns the number of tasks in a project.
func (x *sqliteTx) CountTasks(ctx context.Context, projectID string) (int, error) {
	var n int
	if err := x.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// ListTasks returns a project's tasks.
func (x *sqliteTx) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return x.queryTasks(ctx, `SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.project_id = ?
		ORDER BY t.created_at, t.id
	`, projectID)
}

// SaveTask upserts a task.
func (x *sqliteTx) SaveTask(ctx context.Context, t *domain.Task) error {
	_, err := x.tx.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, description, type, status, priority,
			assignee_id, creator_id, parent_id, team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			type = excluded.type,
			status = excluded.status,
			priority = excluded.priority,
			assignee_id = excluded.assignee_id,
			parent_id = excluded.parent_id,
			team_id = excluded.team_id,
			updated_at = excluded.updated_at
	`, t.ID, t.ProjectID, t.Title, t.Description, string(t.Type), string(t.Status), string(t.Priority),
		t.AssigneeID, t.CreatorID, nullString(t.ParentID), t.TeamID, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert task %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTask removes a task row.
func (x *sqliteTx) DeleteTask(ctx context.Context, id string) error {
	res, err := x.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return tferrors.NewTaskError(tferrors.ErrTaskNotFound, id, "", "")
	}
	return nil
}
