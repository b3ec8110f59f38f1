package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
)

// industrySteps is the JSON shape of one industry's default workflow.
type industrySteps struct {
	Industry string                  `json:"industry"`
	Steps    []domain.StepDefinition `json:"steps"`
}

// AddStepsCommand adds the steps command to the root command.
func AddStepsCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "steps [industry]",
		Short: "Show default workflow steps",
		Long: `Show the default workflow steps for an industry, or for every known
industry when none is given. Unknown industries fall back to "other".
Custom workflows from workflow.custom_dir replace the built-in steps.

Examples:
  taskflow steps
  taskflow steps programming
  taskflow steps marketing --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd.Context(), cmd, flags, args)
		},
	})
}

func runSteps(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, args []string) error {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		return err
	}

	var result []industrySteps
	if len(args) == 1 {
		industry := strings.TrimSpace(args[0])
		result = append(result, industrySteps{Industry: industry, Steps: reg.DefaultSteps(industry)})
	} else {
		for _, industry := range reg.Industries() {
			result = append(result, industrySteps{
				Industry: string(industry),
				Steps:    reg.DefaultSteps(string(industry)),
			})
		}
	}

	out := newPrinter(cmd, flags)
	if out.isJSON() {
		if len(args) == 1 {
			return out.encode(result[0])
		}
		return out.encode(result)
	}

	caser := cases.Title(language.English)
	for i, r := range result {
		if i > 0 {
			out.println()
		}
		label := caser.String(r.Industry)
		if _, ok := reg.Lookup(r.Industry); !ok {
			label += " (using " + string(constants.IndustryOther) + ")"
		}
		out.println(out.styles.header.Render(label))
		out.steps(r.Steps)
	}
	return nil
}
