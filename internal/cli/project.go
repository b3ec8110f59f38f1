package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskflow/internal/domain"
	"github.com/mrz1836/taskflow/internal/tracker"
	"github.com/mrz1836/taskflow/internal/workflow"
)

// ProjectCreateFlags holds flags for the project create command.
type ProjectCreateFlags struct {
	Industry     string
	WorkflowFile string
}

// AddProjectCommand adds the project command group to the root command.
func AddProjectCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	createFlags := &ProjectCreateFlags{}
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Long: `Create a project. Its workflow is seeded from the industry template,
or from a custom workflow file when --workflow-file is given.

Examples:
  taskflow project create "Website" --industry programming
  taskflow project create "Launch" --workflow-file launch.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCreate(cmd.Context(), cmd, flags, createFlags, args[0])
		},
	}
	create.Flags().StringVar(&createFlags.Industry, "industry", "", "industry template (default workflow.default_industry)")
	create.Flags().StringVar(&createFlags.WorkflowFile, "workflow-file", "", "custom workflow file (YAML or JSON)")

	show := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project and its workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectShow(cmd.Context(), cmd, flags, args[0])
		},
	}

	cmd.AddCommand(create, show)
	root.AddCommand(cmd)
}

func runProjectCreate(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, pf *ProjectCreateFlags, name string) error {
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	in := tracker.ProjectInput{Name: name, Industry: pf.Industry}
	if in.Industry == "" {
		in.Industry = a.cfg.Workflow.DefaultIndustry
	}
	if pf.WorkflowFile != "" {
		wf, err := workflow.NewLoader("").LoadFromFile(pf.WorkflowFile)
		if err != nil {
			return err
		}
		in.Steps = wf.Steps
		if pf.Industry == "" && wf.Industry != "" {
			in.Industry = wf.Industry
		}
	}

	p, err := a.svc.CreateProject(ctx, in)
	if err != nil {
		return err
	}
	return printProject(newPrinter(cmd, flags), p, fmt.Sprintf("Created project %s", p.ID))
}

func runProjectShow(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, id string) error {
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.svc.Project(ctx, id)
	if err != nil {
		return err
	}
	return printProject(newPrinter(cmd, flags), p, "")
}

func printProject(out *printer, p *domain.Project, headline string) error {
	if out.isJSON() {
		return out.encode(p)
	}
	if headline != "" {
		out.success("%s", headline)
	}
	out.field("ID", p.ID)
	out.field("Name", p.Name)
	out.field("Industry", p.Industry)
	out.field("Created", formatTime(p.CreatedAt))
	out.println(out.styles.label.Render("Workflow:"))
	out.steps(p.Workflow)
	return nil
}
