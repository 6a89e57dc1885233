package models

import "time"

// Status is the lifecycle state of an explicit assignment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusDeclined  Status = "DECLINED"
)

// IsValid reports whether s is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusDeclined:
		return true
	default:
		return false
	}
}

// Event is the top of the contest hierarchy.
type Event struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"size:36;index" json:"tenant_id"`
	Name     string `gorm:"size:255" json:"name"`
}

// Contest belongs to an Event.
type Contest struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"size:36;index" json:"tenant_id"`
	EventID  string `gorm:"size:36;index" json:"event_id"`
	Name     string `gorm:"size:255" json:"name"`
}

// Category belongs to a Contest. The parent chain category -> contest ->
// event is walked when derived assignments are surfaced.
type Category struct {
	ID        string   `gorm:"primaryKey;size:36" json:"id"`
	TenantID  string   `gorm:"size:36;index" json:"tenant_id"`
	ContestID string   `gorm:"size:36;index" json:"contest_id"`
	Name      string   `gorm:"size:255" json:"name"`
	Contest   *Contest `gorm:"foreignKey:ContestID" json:"contest,omitempty"`
}

// Judge is a scoring-role user surfaced in assignments.
type Judge struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"size:36;index" json:"tenant_id"`
	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"size:255" json:"email"`
}

// Assignment is the explicit, authoritative role-assignment record.
// At least one of CategoryID and ContestID is set; with a category, contest
// and event are derived from the category's parent chain, never supplied
// independently. At most one assignment exists per (tenant, judge, category).
type Assignment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID   string    `gorm:"size:36;uniqueIndex:idx_tenant_judge_category,priority:1" json:"tenant_id"`
	JudgeID    string    `gorm:"size:36;index;uniqueIndex:idx_tenant_judge_category,priority:2" json:"judge_id"`
	CategoryID *string   `gorm:"size:36;index;uniqueIndex:idx_tenant_judge_category,priority:3" json:"category_id,omitempty"`
	ContestID  string    `gorm:"size:36;index" json:"contest_id,omitempty"`
	EventID    string    `gorm:"size:36;index" json:"event_id,omitempty"`
	Status     Status    `gorm:"size:16" json:"status"`
	Priority   int       `json:"priority"`
	AssignedBy string    `gorm:"size:36" json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
	Notes      string    `gorm:"size:1024" json:"notes,omitempty"`

	// Display relations, preloaded for API responses.
	Judge    *Judge    `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// CategoryJudge is the implicit membership relation: a judge pre-assigned to
// a category via the roster. It carries no status, priority or notes; those
// are synthesized with defaults when the relation is surfaced.
type CategoryJudge struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	TenantID   string `gorm:"size:36;index" json:"tenant_id"`
	JudgeID    string `gorm:"size:36;index" json:"judge_id"`
	CategoryID string `gorm:"size:36;index" json:"category_id"`
}

// Source tags which side of the reconciliation a view entry came from.
type Source string

const (
	// SourceExplicit marks an authoritative Assignment record.
	SourceExplicit Source = "explicit"
	// SourceDerived marks an entry synthesized from a membership relation.
	SourceDerived Source = "derived"
)

// ReconciledAssignment is one entry of the merged logical view over explicit
// assignments and implicit memberships, keyed by (JudgeID, CategoryID).
// When both sources hold the same key, the explicit record always wins.
type ReconciledAssignment struct {
	ID         string    `json:"id"`
	JudgeID    string    `json:"judge_id"`
	CategoryID string    `json:"category_id"`
	ContestID  string    `json:"contest_id"`
	EventID    string    `json:"event_id"`
	Status     Status    `json:"status"`
	Priority   int       `json:"priority"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	AssignedAt time.Time `json:"assigned_at,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Source     Source    `json:"source"`
}

// Key returns the natural composite key of a view entry.
func (r ReconciledAssignment) Key() string {
	return r.JudgeID + "|" + r.CategoryID
}
