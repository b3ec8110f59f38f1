package store

import (
	"context"
	"fmt"

	"github.com/mrz1836/taskflow/internal/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	industry TEXT NOT NULL,
	workflow TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	priority TEXT NOT NULL,
	assignee_id TEXT NOT NULL DEFAULT '',
	creator_id TEXT NOT NULL,
	parent_id TEXT,
	team_id TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES tasks(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);

CREATE TABLE IF NOT EXISTS task_relations (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	type TEXT NOT NULL,
	pair_id TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	UNIQUE (source_id, target_id, type),
	CHECK (source_id <> target_id),
	FOREIGN KEY (source_id) REFERENCES tasks(id) ON DELETE CASCADE,
	FOREIGN KEY (target_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_task_relations_target ON task_relations(target_id);
CREATE INDEX IF NOT EXISTS idx_task_relations_project ON task_relations(project_id, type);

CREATE TABLE IF NOT EXISTS task_activities (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	field TEXT NOT NULL DEFAULT '',
	old_value TEXT NOT NULL DEFAULT '',
	new_value TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_task_activities_task ON task_activities(task_id, created_at);
`

// initSchema creates all tables if they don't exist and stamps the schema
// version. A database written by a newer schema is refused.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > constants.SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, constants.SchemaVersion)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", constants.SchemaVersion))
	return err
}
