package store

import (
	"context"
	"fmt"

	"github.com/mrz1836/taskflow/internal/domain"
)

// AppendActivity writes an activity record.
func (x *sqliteTx) AppendActivity(ctx context.Context, a *domain.Activity) error {
	_, err := x.tx.ExecContext(ctx, `
		INSERT INTO task_activities (id, task_id, user_id, action, field, old_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.TaskID, a.UserID, a.Action, a.Field, a.OldValue, a.NewValue, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to append activity for task %s: %w", a.TaskID, err)
	}
	return nil
}

// ListActivities returns a task's activities in write order.
func (x *sqliteTx) ListActivities(ctx context.Context, taskID string) ([]*domain.Activity, error) {
	rows, err := x.tx.QueryContext(ctx, `
		SELECT id, task_id, user_id, action, field, old_value, new_value, created_at
		FROM task_activities
		WHERE task_id = ?
		ORDER BY created_at, rowid
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	activities := []*domain.Activity{}
	for rows.Next() {
		var (
			a         domain.Activity
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Action, &a.Field, &a.OldValue, &a.NewValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return activities, nil
}
