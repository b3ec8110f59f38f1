package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	"github.com/mrz1836/taskflow/internal/errors"
)

// TaskFlags holds the field flags shared by task create and task update.
type TaskFlags struct {
	Description string
	Type        string
	Priority    string
	Status      string
	Parent      string
	Assignee    string
	Team        string
	Title       string
}

// AddTaskCommand adds the task command group to the root command.
func AddTaskCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, inspect and change tasks",
	}

	cmd.AddCommand(
		newTaskCreateCmd(flags),
		newTaskShowCmd(flags),
		newTaskListCmd(flags),
		newTaskUpdateCmd(flags),
		newTaskStatusCmd(flags),
		newTaskReparentCmd(flags),
		newTaskDeleteCmd(flags),
		newTaskActivityCmd(flags),
	)
	root.AddCommand(cmd)
}

func newTaskCreateCmd(flags *GlobalFlags) *cobra.Command {
	tf := &TaskFlags{}
	cmd := &cobra.Command{
		Use:   "create <project-id> <title>",
		Short: "Create a task",
		Long: `Create a task in a project. Type defaults to subtask, priority to
medium and status to todo.

Examples:
  taskflow task create <project-id> "Add login form" --type feature --priority high
  taskflow task create <project-id> "Write tests" --parent <task-id>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.CreateTask(ctx, domain.TaskInput{
				ProjectID:   args[0],
				Title:       args[1],
				Description: tf.Description,
				Type:        constants.TaskType(tf.Type),
				Status:      constants.TaskStatus(tf.Status),
				Priority:    constants.Priority(tf.Priority),
				AssigneeID:  tf.Assignee,
				CreatorID:   flags.actor(),
				ParentID:    tf.Parent,
				TeamID:      tf.Team,
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(t)
			}
			out.success("Created task %s", t.ID)
			out.task(t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tf.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&tf.Type, "type", "", "epic|story|feature|bug|subtask")
	cmd.Flags().StringVar(&tf.Priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&tf.Status, "status", "", "todo|in_progress|done|delivered")
	cmd.Flags().StringVar(&tf.Parent, "parent", "", "parent task id")
	cmd.Flags().StringVar(&tf.Assignee, "assignee", "", "assignee user id")
	cmd.Flags().StringVar(&tf.Team, "team", "", "team id")
	return cmd
}

// taskDetail is the JSON shape of task show.
type taskDetail struct {
	Task      *domain.Task       `json:"task"`
	Relations []*domain.Relation `json:"relations"`
}

func newTaskShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task and its relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.Task(ctx, args[0])
			if err != nil {
				return err
			}
			rels, err := a.svc.Relations(ctx, args[0])
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(taskDetail{Task: t, Relations: nonNil(rels)})
			}
			out.task(t)
			if len(rels) > 0 {
				out.println(out.styles.label.Render("Relations:"))
				for _, r := range rels {
					out.printf("  ")
					out.relation(r)
				}
			}
			return nil
		},
	}
}

func newTaskListCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List a project's tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.svc.Tasks(ctx, args[0])
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(nonNil(tasks))
			}
			if len(tasks) == 0 {
				out.println("No tasks. Run 'taskflow task create' to add one.")
				return nil
			}
			out.println(out.styles.header.Render(fmt.Sprintf("%-36s  %-11s  %-8s  %s", "ID", "STATUS", "PRIORITY", "TITLE")))
			for _, t := range tasks {
				out.taskRow(t)
			}
			return nil
		},
	}
}

func newTaskUpdateCmd(flags *GlobalFlags) *cobra.Command {
	tf := &TaskFlags{}
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task's fields",
		Long: `Update title, description, type, priority, assignee or team. Only the
flags you pass are changed; pass an empty value to clear an optional field.
Status and parent have their own commands.

Examples:
  taskflow task update <task-id> --title "Add signup form" --priority high
  taskflow task update <task-id> --assignee ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := buildPatch(cmd, tf)
			if patch.IsEmpty() {
				return errors.NewExitCode2Error(fmt.Errorf("%w: no fields to update", errors.ErrInvalidArgument))
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.UpdateTask(ctx, args[0], patch, flags.actor())
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(t)
			}
			out.success("Updated task %s", t.ID)
			out.task(t)
			return nil
		},
	}
	cmd.Flags().StringVar(&tf.Title, "title", "", "new title")
	cmd.Flags().StringVarP(&tf.Description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&tf.Type, "type", "", "epic|story|feature|bug|subtask")
	cmd.Flags().StringVar(&tf.Priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&tf.Assignee, "assignee", "", "assignee user id")
	cmd.Flags().StringVar(&tf.Team, "team", "", "team id")
	return cmd
}

// buildPatch turns the flags the user actually passed into a TaskPatch.
func buildPatch(cmd *cobra.Command, tf *TaskFlags) domain.TaskPatch {
	var patch domain.TaskPatch
	changed := cmd.Flags().Changed

	if changed("title") {
		patch.Title = &tf.Title
	}
	if changed("description") {
		patch.Description = &tf.Description
	}
	if changed("type") {
		typ := constants.TaskType(tf.Type)
		patch.Type = &typ
	}
	if changed("priority") {
		p := constants.Priority(tf.Priority)
		patch.Priority = &p
	}
	if changed("assignee") {
		patch.AssigneeID = &tf.Assignee
	}
	if changed("team") {
		patch.TeamID = &tf.Team
	}
	return patch
}

func newTaskStatusCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Move a task to another status",
		Long: `Move a task to todo, in_progress, done or delivered. The output names
the board column the task now occupies in its project's workflow.

Examples:
  taskflow task status <task-id> in_progress`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			change, err := a.svc.ChangeStatus(ctx, args[0], constants.TaskStatus(args[1]), flags.actor())
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(change)
			}
			if change.Activity == nil {
				out.println(out.styles.dim.Render("Task is already " + string(change.Task.Status)))
			} else {
				out.success("%s → %s", change.Activity.OldValue, change.Activity.NewValue)
			}
			if change.Step != nil {
				out.field("Column", change.Step.Name)
			}
			return nil
		},
	}
}

func newTaskReparentCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reparent <task-id> [parent-id]",
		Short: "Move a task under another parent",
		Long: `Move a task under a new parent in the same project. Without a parent id
the task becomes top-level. Moves that would create a cycle are rejected.

Examples:
  taskflow task reparent <task-id> <parent-id>
  taskflow task reparent <task-id>`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID := ""
			if len(args) == 2 {
				parentID = args[1]
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.Reparent(ctx, args[0], parentID, flags.actor())
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(t)
			}
			if t.ParentID == "" {
				out.success("Task %s is now top-level", t.ID)
			} else {
				out.success("Task %s is now under %s", t.ID, t.ParentID)
			}
			return nil
		},
	}
}

func newTaskDeleteCmd(flags *GlobalFlags) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Long: `Delete a task and its relations. Children are detached (orphan) or
deleted with it (recursive); the default comes from tasks.cascade_policy.

Examples:
  taskflow task delete <task-id>
  taskflow task delete <task-id> --policy recursive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskDelete(cmd.Context(), cmd, flags, args[0], constants.CascadePolicy(policy))
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "orphan|recursive (default tasks.cascade_policy)")
	return cmd
}

func runTaskDelete(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, id string, policy constants.CascadePolicy) error {
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.svc.DeleteTask(ctx, id, policy, flags.actor())
	if err != nil {
		return err
	}

	out := newPrinter(cmd, flags)
	if out.isJSON() {
		return out.encode(report)
	}
	out.success("Deleted %d task(s)", len(report.DeletedTaskIDs))
	for _, deleted := range report.DeletedTaskIDs {
		out.printf("  - %s\n", deleted)
	}
	if len(report.OrphanedTaskIDs) > 0 {
		out.printf("Orphaned %d child task(s)\n", len(report.OrphanedTaskIDs))
	}
	if len(report.RemovedRelations) > 0 {
		out.printf("Removed %d relation(s)\n", len(report.RemovedRelations))
	}
	return nil
}

func newTaskActivityCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <task-id>",
		Short: "Show a task's activity log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			acts, err := a.svc.Activities(ctx, args[0])
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(nonNil(acts))
			}
			for _, act := range acts {
				out.activity(act)
			}
			return nil
		},
	}
}

// nonNil makes empty results encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
