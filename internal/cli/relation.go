package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/errors"
)

// AddRelationCommand adds the relation command group to the root command.
func AddRelationCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "relation",
		Short: "Link tasks with typed relations",
		Long: `Link tasks with BlockedBy, Blocking or ClonedFrom relations.

BlockedBy and Blocking are two halves of one pair: adding "A BlockedBy B"
also records "B Blocking A", and removing either half removes both.
Both tasks must belong to the same project, and blocking cycles are rejected.`,
	}

	cmd.AddCommand(
		newRelationAddCmd(flags),
		newRelationRemoveCmd(flags),
		newRelationListCmd(flags),
	)
	root.AddCommand(cmd)
}

// parseRelationType accepts BlockedBy, blocked_by, blocked-by and friends.
func parseRelationType(s string) (constants.RelationType, error) {
	typ, ok := constants.ParseRelationType(s)
	if !ok {
		return "", errors.NewExitCode2Error(fmt.Errorf("%w: %q", errors.ErrInvalidRelationType, s))
	}
	return typ, nil
}

func newRelationAddCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <source-id> <type> <target-id>",
		Short: "Add a relation",
		Long: `Add a relation. Adding a relation that already exists is not an error.

Examples:
  taskflow relation add <task-a> BlockedBy <task-b>
  taskflow relation add <copy> cloned_from <original>`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseRelationType(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.svc.AddRelation(ctx, args[0], args[2], typ, flags.actor())
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(r)
			}
			out.success("Linked")
			out.relation(r)
			return nil
		},
	}
}

func newRelationRemoveCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <source-id> <type> <target-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a relation (and its inverse)",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseRelationType(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.svc.RemoveRelation(ctx, args[0], args[2], typ, flags.actor())
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(nonNil(removed))
			}
			if len(removed) == 0 {
				out.println(out.styles.dim.Render("No such relation"))
				return nil
			}
			out.success("Removed %d relation(s)", len(removed))
			for _, r := range removed {
				out.relation(r)
			}
			return nil
		},
	}
}

func newRelationListCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list <task-id>",
		Aliases: []string{"ls"},
		Short:   "List every relation touching a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			rels, err := a.svc.Relations(ctx, args[0])
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(nonNil(rels))
			}
			if len(rels) == 0 {
				out.println(out.styles.dim.Render("No relations"))
				return nil
			}
			for _, r := range rels {
				out.relation(r)
			}
			return nil
		},
	}
}
