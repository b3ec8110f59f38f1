package constants

// TaskType categorizes a task.
type TaskType string

// Task types.
const (
	TaskTypeEpic    TaskType = "epic"
	TaskTypeBug     TaskType = "bug"
	TaskTypeFeature TaskType = "feature"
	TaskTypeStory   TaskType = "story"
	TaskTypeSubtask TaskType = "subtask"
)

// String returns the string representation of the TaskType.
func (t TaskType) String() string {
	return string(t)
}

// IsValid reports whether t is a known task type.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeEpic, TaskTypeBug, TaskTypeFeature, TaskTypeStory, TaskTypeSubtask:
		return true
	default:
		return false
	}
}

// Priority ranks a task.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// String returns the string representation of the Priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// RelationType names a typed edge between two tasks.
// The set is closed; external spellings must be normalized before they reach
// the core (see ParseRelationType).
type RelationType string

// Relation types.
const (
	RelationBlockedBy  RelationType = "BlockedBy"
	RelationBlocking   RelationType = "Blocking"
	RelationClonedFrom RelationType = "ClonedFrom"
)

// String returns the string representation of the RelationType.
func (r RelationType) String() string {
	return string(r)
}

// IsValid reports whether r is a known relation type.
func (r RelationType) IsValid() bool {
	switch r {
	case RelationBlockedBy, RelationBlocking, RelationClonedFrom:
		return true
	default:
		return false
	}
}

// Inverse returns the logically inverse relation type.
// The second return is false for relations without an inverse (ClonedFrom).
func (r RelationType) Inverse() (RelationType, bool) {
	switch r {
	case RelationBlockedBy:
		return RelationBlocking, true
	case RelationBlocking:
		return RelationBlockedBy, true
	case RelationClonedFrom:
		return "", false
	default:
		return "", false
	}
}

// IsBlocking reports whether r is one half of the blocked-by/blocking pair.
func (r RelationType) IsBlocking() bool {
	return r == RelationBlockedBy || r == RelationBlocking
}

// relationAliases maps the spellings seen at the API boundary to the closed set.
//
//nolint:gochecknoglobals // Read-only lookup table
var relationAliases = map[string]RelationType{
	"BlockedBy":   RelationBlockedBy,
	"blocked_by":  RelationBlockedBy,
	"blocked-by":  RelationBlockedBy,
	"Blocking":    RelationBlocking,
	"blocking":    RelationBlocking,
	"blocks":      RelationBlocking,
	"ClonedFrom":  RelationClonedFrom,
	"cloned_from": RelationClonedFrom,
	"cloned-from": RelationClonedFrom,
}

// ParseRelationType normalizes an external relation spelling.
// The second return is false when s names no known relation.
func ParseRelationType(s string) (RelationType, bool) {
	r, ok := relationAliases[s]
	return r, ok
}

// CascadePolicy decides what happens to the children of a deleted task.
type CascadePolicy string

// Cascade policies.
const (
	// CascadeOrphan detaches children (parent set to none). This is the default.
	CascadeOrphan CascadePolicy = "orphan"

	// CascadeRecursive deletes children, and their children, with the task.
	CascadeRecursive CascadePolicy = "recursive"
)

// String returns the string representation of the CascadePolicy.
func (p CascadePolicy) String() string {
	return string(p)
}

// IsValid reports whether p is a known cascade policy.
func (p CascadePolicy) IsValid() bool {
	return p == CascadeOrphan || p == CascadeRecursive
}

// Industry tags a project and selects its default workflow.
type Industry string

// Industries with a built-in workflow template.
const (
	IndustryProgramming Industry = "programming"
	IndustryMarketing   Industry = "marketing"
	IndustryLegal       Industry = "legal"
	IndustryProduct     Industry = "product"
	IndustryLogistics   Industry = "logistics"
	IndustryOther       Industry = "other"
)

// String returns the string representation of the Industry.
func (i Industry) String() string {
	return string(i)
}

// Activity actions recorded on task activity entries.
const (
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionStatusChanged   = "status_changed"
	ActionReparented      = "reparented"
	ActionRelationAdded   = "relation_added"
	ActionRelationRemoved = "relation_removed"
	ActionOrphaned        = "orphaned"
)

// Activity field names.
const (
	FieldStatus      = "status"
	FieldParent      = "parent_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldType        = "type"
	FieldAssignee    = "assignee_id"
	FieldTeam        = "team_id"
	FieldRelation    = "relation"
	FieldCreator     = "creator_id"
	FieldProject     = "project_id"
)
