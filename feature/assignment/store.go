package assignment

import (
	"context"
	"errors"

	"scorehub/feature/assignment/models"
)

// Store errors. The service maps these to the application error taxonomy;
// features never match on error text.
var (
	// ErrNotFound signals the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Filters narrows the reconciled assignment view. All set fields are
// AND-combined. JudgeID and CategoryID also apply to implicit memberships;
// Status, ContestID and EventID apply after the category chain is walked.
type Filters struct {
	Status     string `json:"status,omitempty"`
	JudgeID    string `json:"judge_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	ContestID  string `json:"contest_id,omitempty"`
	EventID    string `json:"event_id,omitempty"`
}

// Store is the persistence boundary of the reconciliation engine.
type Store interface {
	// GetAssignment returns the assignment with its display relations
	// preloaded, or ErrNotFound.
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	// ListAssignments returns explicit assignments matching the filters.
	ListAssignments(ctx context.Context, tenant string, f Filters) ([]models.Assignment, error)
	// CreateAssignment inserts a new assignment, returning ErrDuplicate when
	// the (tenant, judge, category) uniqueness constraint is violated.
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	// SaveAssignment persists updated fields of an existing assignment.
	SaveAssignment(ctx context.Context, a *models.Assignment) error
	// DeleteAssignment removes an assignment, returning ErrNotFound when
	// no row was affected.
	DeleteAssignment(ctx context.Context, id string) error
	// AssignmentExists reports whether an explicit assignment exists for
	// the (tenant, judge, category) triple.
	AssignmentExists(ctx context.Context, tenant, judgeID, categoryID string) (bool, error)

	// ListMemberships returns implicit membership relations, optionally
	// narrowed by judge and/or category.
	ListMemberships(ctx context.Context, tenant, judgeID, categoryID string) ([]models.CategoryJudge, error)

	// GetCategory returns the category with its parent contest preloaded,
	// or ErrNotFound.
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	// GetContest returns the contest, or ErrNotFound.
	GetContest(ctx context.Context, id string) (*models.Contest, error)
	// GetJudge returns the judge, or ErrNotFound.
	GetJudge(ctx context.Context, id string) (*models.Judge, error)
}
