package task

import (
	"context"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/ctxutil"
)

// ParentLookup resolves the parent of a task. An empty parent id ends the
// chain.
type ParentLookup interface {
	ParentOf(ctx context.Context, taskID string) (string, error)
}

// ParentLookupFunc adapts a function to ParentLookup.
type ParentLookupFunc func(ctx context.Context, taskID string) (string, error)

// ParentOf calls f.
func (f ParentLookupFunc) ParentOf(ctx context.Context, taskID string) (string, error) {
	return f(ctx, taskID)
}

// WouldCreateCycle reports whether making proposedParentID the parent of
// taskID would put taskID into its own ancestor chain.
//
// A self-reference is a cycle and is reported without calling lookup. The walk
// visits at most limit tasks (the project's task count); a chain longer than
// that can only exist if it already loops, so it is reported as a cycle too.
// A limit <= 0 falls back to constants.DefaultMaxAncestorDepth.
func WouldCreateCycle(ctx context.Context, taskID, proposedParentID string, lookup ParentLookup, limit int) (bool, error) {
	if proposedParentID == "" {
		return false, nil
	}
	if taskID == proposedParentID {
		return true, nil
	}
	if limit <= 0 {
		limit = constants.DefaultMaxAncestorDepth
	}

	current := proposedParentID
	for visited := 0; current != ""; visited++ {
		if current == taskID || visited >= limit {
			return true, nil
		}
		if err := ctxutil.Canceled(ctx); err != nil {
			return false, err
		}
		parent, err := lookup.ParentOf(ctx, current)
		if err != nil {
			return false, err
		}
		current = parent
	}
	return false, nil
}
