package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskflow/internal/workflow"
)

// boardColumnWidth is the inner width of one rendered board column.
const boardColumnWidth = 24

// AddBoardCommand adds the board command to the root command.
func AddBoardCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "board <project-id>",
		Short: "Show a project's workflow board",
		Long: `Show the project's tasks grouped into its workflow columns. A task sits
in the first column whose status matches its own; tasks no column accepts
are listed under "Unmapped".

Examples:
  taskflow board <project-id>
  taskflow board <project-id> --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			cols, err := a.svc.Board(ctx, args[0])
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags)
			if out.isJSON() {
				return out.encode(cols)
			}
			out.println(renderBoard(cols))
			return nil
		},
	})
}

// renderBoard lays the columns out side by side.
func renderBoard(cols []workflow.Column) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Width(boardColumnWidth).
		Foreground(lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"})
	dim := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"})
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#BCBCBC", Dark: "#585858"}).
		Padding(0, 1).
		Width(boardColumnWidth + 2)

	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", col.Step.Name, len(col.Tasks)))}
		if col.Step.Status != "" {
			lines = append(lines, dim.Render(string(col.Step.Status)))
		}
		lines = append(lines, "")
		if len(col.Tasks) == 0 {
			lines = append(lines, dim.Render("—"))
		}
		for _, t := range col.Tasks {
			lines = append(lines, truncate("• "+t.Title, boardColumnWidth))
			lines = append(lines, dim.Render("  "+shortID(t.ID)+" "+string(t.Priority)))
		}
		rendered = append(rendered, box.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// shortID keeps the first block of a uuid.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// truncate cuts s to width terminal cells.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
