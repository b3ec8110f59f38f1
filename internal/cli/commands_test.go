package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	"github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/relation"
	"github.com/mrz1836/taskflow/internal/tracker"
	"github.com/mrz1836/taskflow/internal/workflow"
)

func columnByName(cols []workflow.Column, name string) *workflow.Column {
	for i := range cols {
		if cols[i].Step.Name == name {
			return &cols[i]
		}
	}
	return nil
}

func taskIDs(tasks []*domain.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestCommands_TaskLifecycle(t *testing.T) {
	env := newCLIEnv(t)

	var project domain.Project
	env.runJSON(&project, "project", "create", "Website", "--industry", "programming")
	require.NotEmpty(t, project.ID)
	assert.Equal(t, "programming", project.Industry)
	require.Len(t, project.Workflow, 6)

	var epic, child, blocker domain.Task
	env.runJSON(&epic, "task", "create", project.ID, "Launch site", "--type", "epic", "--priority", "high")
	env.runJSON(&child, "task", "create", project.ID, "Build pages", "--parent", epic.ID, "-d", "all of them")
	env.runJSON(&blocker, "task", "create", project.ID, "Pick a host")

	assert.Equal(t, constants.TaskTypeEpic, epic.Type)
	assert.Equal(t, constants.TaskStatusTodo, child.Status)
	assert.Equal(t, epic.ID, child.ParentID)
	assert.Equal(t, "tester", child.CreatorID)

	var tasks []*domain.Task
	env.runJSON(&tasks, "task", "list", project.ID)
	assert.ElementsMatch(t, []string{epic.ID, child.ID, blocker.ID}, taskIDs(tasks))

	t.Run("relation pair", func(t *testing.T) {
		var rel domain.Relation
		env.runJSON(&rel, "relation", "add", child.ID, "blocked-by", blocker.ID)
		assert.Equal(t, constants.RelationBlockedBy, rel.Type)
		assert.NotEmpty(t, rel.PairID)

		var rels []*domain.Relation
		env.runJSON(&rels, "relation", "list", blocker.ID)
		require.Len(t, rels, 2)
		types := []constants.RelationType{rels[0].Type, rels[1].Type}
		assert.ElementsMatch(t, []constants.RelationType{constants.RelationBlockedBy, constants.RelationBlocking}, types)

		_, err := env.run("relation", "add", blocker.ID, "BlockedBy", child.ID)
		require.ErrorIs(t, err, errors.ErrCycle)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

		_, err = env.run("relation", "add", child.ID, "Duplicates", blocker.ID)
		require.ErrorIs(t, err, errors.ErrInvalidRelationType)
	})

	t.Run("status moves the task across the board", func(t *testing.T) {
		var change tracker.StatusChange
		env.runJSON(&change, "task", "status", child.ID, "in_progress")
		assert.Equal(t, constants.TaskStatusInProgress, change.Task.Status)
		require.NotNil(t, change.Activity)
		assert.Equal(t, "tester", change.Activity.UserID)
		require.NotNil(t, change.Step)
		assert.Equal(t, "In Development", change.Step.Name)

		var cols []workflow.Column
		env.runJSON(&cols, "board", project.ID)
		backlog := columnByName(cols, "Backlog")
		dev := columnByName(cols, "In Development")
		require.NotNil(t, backlog)
		require.NotNil(t, dev)
		assert.ElementsMatch(t, []string{epic.ID, blocker.ID}, taskIDs(backlog.Tasks))
		assert.Equal(t, []string{child.ID}, taskIDs(dev.Tasks))

		_, err := env.run("task", "status", child.ID, "archived")
		require.ErrorIs(t, err, errors.ErrInvalidStatus)
	})

	t.Run("update only touches passed flags", func(t *testing.T) {
		var updated domain.Task
		env.runJSON(&updated, "task", "update", blocker.ID, "--title", "Pick a cloud host", "--assignee", "bob")
		assert.Equal(t, "Pick a cloud host", updated.Title)
		assert.Equal(t, "bob", updated.AssigneeID)
		assert.Equal(t, constants.PriorityMedium, updated.Priority)

		_, err := env.run("task", "update", blocker.ID)
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("activity log", func(t *testing.T) {
		var acts []*domain.Activity
		env.runJSON(&acts, "task", "activity", child.ID)
		require.NotEmpty(t, acts)
		assert.Equal(t, constants.ActionCreated, acts[0].Action)

		actions := make([]string, 0, len(acts))
		for _, a := range acts {
			actions = append(actions, a.Action)
		}
		assert.Contains(t, actions, constants.ActionRelationAdded)
		assert.Contains(t, actions, constants.ActionStatusChanged)
	})

	t.Run("reparent rejects cycles", func(t *testing.T) {
		_, err := env.run("task", "reparent", epic.ID, child.ID)
		require.ErrorIs(t, err, errors.ErrCycle)

		var top domain.Task
		env.runJSON(&top, "task", "reparent", child.ID)
		assert.Empty(t, top.ParentID)

		env.runJSON(&top, "task", "reparent", child.ID, epic.ID)
		assert.Equal(t, epic.ID, top.ParentID)
	})

	t.Run("recursive delete", func(t *testing.T) {
		var report relation.CascadeReport
		env.runJSON(&report, "task", "delete", epic.ID, "--policy", "recursive")
		assert.ElementsMatch(t, []string{epic.ID, child.ID}, report.DeletedTaskIDs)
		assert.Empty(t, report.OrphanedTaskIDs)
		assert.Len(t, report.RemovedRelations, 2)

		_, err := env.run("task", "show", child.ID)
		require.ErrorIs(t, err, errors.ErrTaskNotFound)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

		var detail taskDetail
		env.runJSON(&detail, "task", "show", blocker.ID)
		assert.Equal(t, blocker.ID, detail.Task.ID)
		assert.Empty(t, detail.Relations)
	})
}

func TestCommands_OrphanDeleteIsDefault(t *testing.T) {
	env := newCLIEnv(t)

	var project domain.Project
	env.runJSON(&project, "project", "create", "Ops")

	var parent, kid domain.Task
	env.runJSON(&parent, "task", "create", project.ID, "Parent")
	env.runJSON(&kid, "task", "create", project.ID, "Kid", "--parent", parent.ID)

	var report relation.CascadeReport
	env.runJSON(&report, "task", "delete", parent.ID)
	assert.Equal(t, []string{parent.ID}, report.DeletedTaskIDs)
	assert.Equal(t, []string{kid.ID}, report.OrphanedTaskIDs)

	var survivor taskDetail
	env.runJSON(&survivor, "task", "show", kid.ID)
	assert.Empty(t, survivor.Task.ParentID)

	_, err := env.run("task", "delete", kid.ID, "--policy", "shred")
	require.ErrorIs(t, err, errors.ErrInvalidPolicy)
}

func TestCommands_ProjectFromWorkflowFile(t *testing.T) {
	env := newCLIEnv(t)

	file := filepath.Join(t.TempDir(), "launch.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: launch
industry: marketing
steps:
  - name: Drafting
    status: todo
  - name: Live
    status: delivered
`), 0o600))

	var project domain.Project
	env.runJSON(&project, "project", "create", "Launch", "--workflow-file", file)
	assert.Equal(t, "marketing", project.Industry)
	require.Len(t, project.Workflow, 2)
	assert.Equal(t, "Live", project.Workflow[1].Name)

	var shown domain.Project
	env.runJSON(&shown, "project", "show", project.ID)
	assert.Equal(t, project.Workflow, shown.Workflow)

	var task domain.Task
	env.runJSON(&task, "task", "create", project.ID, "Announce", "--status", "delivered")

	var change tracker.StatusChange
	env.runJSON(&change, "task", "status", task.ID, "delivered")
	assert.Nil(t, change.Activity)
	require.NotNil(t, change.Step)
	assert.Equal(t, "Live", change.Step.Name)

	_, err := env.run("project", "show", "missing")
	require.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestCommands_Steps(t *testing.T) {
	env := newCLIEnv(t)

	var all []industrySteps
	env.runJSON(&all, "steps")
	require.Len(t, all, len(workflow.NewDefaultRegistry().Industries()))

	var one industrySteps
	env.runJSON(&one, "steps", "programming")
	assert.Equal(t, "programming", one.Industry)
	assert.Equal(t, "Backlog", one.Steps[0].Name)

	var padded industrySteps
	env.runJSON(&padded, "steps", " legal ")
	assert.Equal(t, "legal", padded.Industry)
	assert.Equal(t, "Intake", padded.Steps[0].Name)

	text := env.mustRun("steps", "aerospace")
	assert.Contains(t, text, "Aerospace (using other)")
}

func TestCommands_TextOutput(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("project", "create", "Docs", "--industry", "legal")
	assert.Contains(t, out, "Created project")
	assert.Contains(t, out, "Intake")

	var project domain.Project
	env.runJSON(&project, "project", "create", "Docs 2")
	env.mustRun("task", "create", project.ID, "Write intro")

	list := env.mustRun("task", "list", project.ID)
	assert.Contains(t, list, "Write intro")
	assert.Contains(t, list, "TITLE")

	board := env.mustRun("board", project.ID)
	assert.Contains(t, board, "Write intro")
}

func TestCommands_ArgValidation(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("task", "create", "only-project")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	_, err = env.run("task", "create", "nope", "Title")
	require.ErrorIs(t, err, errors.ErrProjectNotFound)
}
