package workflow

import (
	"fmt"
	"strings"

	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

// ValidateSteps checks a workflow step list: at least one step, every step
// named, names unique (case-insensitive), and every status known.
func ValidateSteps(steps []domain.StepDefinition) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: workflow must have at least one step", tferrors.ErrWorkflowInvalid)
	}

	seen := make(map[string]int, len(steps))
	for i, s := range steps {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("%w: step %d: name is required", tferrors.ErrWorkflowInvalid, i)
		}
		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: step %d: name %q duplicates step %d", tferrors.ErrWorkflowInvalid, i, name, prev)
		}
		seen[key] = i

		if !IsValidBoardStatus(s.Status) {
			return fmt.Errorf("%w: step %d (%s): unknown status %q", tferrors.ErrWorkflowInvalid, i, name, s.Status)
		}
	}

	return nil
}
