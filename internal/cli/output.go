package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
)

// outputStyles holds lipgloss styles for text output.
type outputStyles struct {
	header       lipgloss.Style
	label        lipgloss.Style
	dim          lipgloss.Style
	success      lipgloss.Style
	statusColors map[constants.TaskStatus]lipgloss.AdaptiveColor
}

func newOutputStyles() *outputStyles {
	return &outputStyles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}),
		statusColors: map[constants.TaskStatus]lipgloss.AdaptiveColor{
			constants.TaskStatusTodo:       {Light: "#585858", Dark: "#BCBCBC"},
			constants.TaskStatusInProgress: {Light: "#0087AF", Dark: "#00D7FF"},
			constants.TaskStatusDone:       {Light: "#008700", Dark: "#00FF87"},
			constants.TaskStatusDelivered:  {Light: "#5F00AF", Dark: "#AF87FF"},
		},
	}
}

// printer writes command results as text or JSON.
type printer struct {
	w      io.Writer
	format string
	styles *outputStyles
}

func newPrinter(cmd *cobra.Command, flags *GlobalFlags) *printer {
	checkNoColor()
	return &printer{
		w:      cmd.OutOrStdout(),
		format: flags.Output,
		styles: newOutputStyles(),
	}
}

// checkNoColor disables lipgloss colors when NO_COLOR exists (any value,
// see https://no-color.org/) or TERM is dumb.
func checkNoColor() {
	_, noColor := os.LookupEnv("NO_COLOR")
	if noColor || os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func (p *printer) isJSON() bool {
	return p.format == OutputJSON
}

// encode writes v as indented JSON.
func (p *printer) encode(v any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output to JSON: %w", err)
	}
	return nil
}

func (p *printer) println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

func (p *printer) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// field prints "label: value", skipping empty values.
func (p *printer) field(label, value string) {
	if value == "" {
		return
	}
	p.printf("%s %s\n", p.styles.label.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func (p *printer) status(s constants.TaskStatus) string {
	if c, ok := p.styles.statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(string(s))
	}
	return string(s)
}

func (p *printer) success(format string, a ...any) {
	p.println(p.styles.success.Render("✓ " + fmt.Sprintf(format, a...)))
}

func (p *printer) task(t *domain.Task) {
	p.field("ID", t.ID)
	p.field("Title", t.Title)
	p.field("Project", t.ProjectID)
	p.field("Type", string(t.Type))
	p.field("Status", p.status(t.Status))
	p.field("Priority", string(t.Priority))
	p.field("Parent", t.ParentID)
	p.field("Creator", t.CreatorID)
	p.field("Assignee", t.AssigneeID)
	p.field("Team", t.TeamID)
	p.field("Description", t.Description)
	p.field("Updated", formatTime(t.UpdatedAt))
}

func (p *printer) taskRow(t *domain.Task) {
	p.printf("%-36s  %-11s  %-8s  %s\n", t.ID, p.status(t.Status), t.Priority, t.Title)
}

func (p *printer) relation(r *domain.Relation) {
	line := fmt.Sprintf("%s %s %s", r.SourceID, p.styles.label.Render(string(r.Type)), r.TargetID)
	if r.PairID != "" {
		line += p.styles.dim.Render("  (pair " + r.PairID + ")")
	}
	p.println(line)
}

func (p *printer) activity(a *domain.Activity) {
	line := fmt.Sprintf("%s  %-16s  %s", formatTime(a.CreatedAt), a.Action, a.UserID)
	if a.Field != "" {
		line += fmt.Sprintf("  %s: %q → %q", a.Field, a.OldValue, a.NewValue)
	} else if a.NewValue != "" {
		line += "  " + a.NewValue
	}
	p.println(line)
}

func (p *printer) steps(steps []domain.StepDefinition) {
	for i, s := range steps {
		p.printf("  %d. %-20s %s\n", i+1, s.Name, p.styles.dim.Render(string(s.Status)))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
