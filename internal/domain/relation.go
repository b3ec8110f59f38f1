package domain

import (
	"time"

	"github.com/mrz1836/taskflow/internal/constants"
)

// Relation is a directed, typed edge between two tasks of the same project.
// It is distinct from the parent/child hierarchy.
//
// Blocking relations are materialized in both directions: "A BlockedBy B" is
// stored together with "B Blocking A", and both halves share a PairID.
type Relation struct {
	ID        string                 `json:"id"`
	SourceID  string                 `json:"source_id"`
	TargetID  string                 `json:"target_id"`
	Type      constants.RelationType `json:"type"`
	PairID    string                 `json:"pair_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Touches reports whether taskID is either endpoint of the relation.
func (r *Relation) Touches(taskID string) bool {
	return r.SourceID == taskID || r.TargetID == taskID
}

// Other returns the endpoint of the relation that is not taskID.
func (r *Relation) Other(taskID string) string {
	if r.SourceID == taskID {
		return r.TargetID
	}
	return r.SourceID
}

// Key is the uniqueness key of a relation: one edge per (source, target, type).
func (r *Relation) Key() RelationKey {
	return RelationKey{SourceID: r.SourceID, TargetID: r.TargetID, Type: r.Type}
}

// RelationKey identifies a relation by its (source, target, type) triple.
type RelationKey struct {
	SourceID string
	TargetID string
	Type     constants.RelationType
}
