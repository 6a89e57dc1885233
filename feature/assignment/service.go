package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"scorehub/core/apperr"
	"scorehub/core/bulk"
	"scorehub/core/cache"
	"scorehub/feature/assignment/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// listCachePrefix scopes every cached list fingerprint. Mutations
	// invalidate the whole prefix since filter combinations cannot be
	// enumerated precisely.
	listCachePrefix = "assignments:list:"
	judgeCacheKey   = "assignments:judge:"
	catCacheKey     = "assignments:category:"

	// listCacheTTL bounds how long a stale list can survive a crash between
	// the persistence write and the cache invalidation.
	listCacheTTL = 15 * time.Minute
)

// Hook is a post-commit side effect (e.g. a notification send). Hooks are
// invoked after a successful create, logged on failure, and never awaited
// for correctness.
type Hook func(ctx context.Context, a *models.Assignment)

// Service is the assignment reconciliation engine. It owns explicit
// assignment mutations, merges them with implicit memberships into one
// logical view, and drives cache invalidation across both paths.
type Service struct {
	store  Store
	cache  cache.Cache
	logger *zap.Logger
	tenant string

	sf    singleflight.Group
	hooks []Hook

	// Overridable in tests
	now   func() time.Time
	newID func() string
}

// NewService creates a new reconciliation service.
func NewService(store Store, c cache.Cache, logger *zap.Logger, tenant string) *Service {
	return &Service{
		store:  store,
		cache:  c,
		logger: logger,
		tenant: tenant,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// OnCreate registers a post-commit hook.
func (s *Service) OnCreate(h Hook) {
	s.hooks = append(s.hooks, h)
}

// listCacheKey fingerprints a filter set deterministically.
func listCacheKey(f Filters) string {
	return listCachePrefix + strings.Join([]string{
		f.Status, f.JudgeID, f.CategoryID, f.ContestID, f.EventID,
	}, "|")
}

// GetAll returns the reconciled assignment view for the given filters:
// the deduplicated union of explicit assignments and implicit memberships,
// explicit records winning on key collisions. Results are cached for
// 15 minutes keyed by the filter fingerprint.
func (s *Service) GetAll(ctx context.Context, f Filters) ([]models.ReconciledAssignment, error) {
	key := listCacheKey(f)

	if v := s.cache.Get(key); v != nil {
		if view, ok := v.([]models.ReconciledAssignment); ok {
			return view, nil
		}
	}

	// singleflight collapses concurrent misses for the same fingerprint;
	// a duplicate recompute is still tolerated, values are idempotent.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		view, err := s.buildView(ctx, f)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, view, listCacheTTL)
		return view, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.ReconciledAssignment), nil
}

// GetByJudge returns the reconciled view scoped to one judge, cached under
// the judge-scoped key that single-entity mutations invalidate precisely.
func (s *Service) GetByJudge(ctx context.Context, judgeID string) ([]models.ReconciledAssignment, error) {
	return s.getScoped(ctx, judgeCacheKey+judgeID, Filters{JudgeID: judgeID})
}

// GetByCategory returns the reconciled view scoped to one category, cached
// under the category-scoped key.
func (s *Service) GetByCategory(ctx context.Context, categoryID string) ([]models.ReconciledAssignment, error) {
	return s.getScoped(ctx, catCacheKey+categoryID, Filters{CategoryID: categoryID})
}

func (s *Service) getScoped(ctx context.Context, key string, f Filters) ([]models.ReconciledAssignment, error) {
	if v := s.cache.Get(key); v != nil {
		if view, ok := v.([]models.ReconciledAssignment); ok {
			return view, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		view, err := s.buildView(ctx, f)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, view, listCacheTTL)
		return view, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.ReconciledAssignment), nil
}

// buildView queries both sources and merges them.
func (s *Service) buildView(ctx context.Context, f Filters) ([]models.ReconciledAssignment, error) {
	explicit, err := s.store.ListAssignments(ctx, s.tenant, f)
	if err != nil {
		return nil, err
	}

	// Memberships only understand the judge/category subset of the filters;
	// the rest apply after the category chain is walked.
	memberships, err := s.store.ListMemberships(ctx, s.tenant, f.JudgeID, f.CategoryID)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]models.ReconciledAssignment)

	// Derived entries first, so explicit records overwrite them below.
	categories := make(map[string]*models.Category)
	for _, m := range memberships {
		cat, ok := categories[m.CategoryID]
		if !ok {
			loaded, err := s.store.GetCategory(ctx, m.CategoryID)
			if errors.Is(err, ErrNotFound) {
				categories[m.CategoryID] = nil
				continue
			}
			if err != nil {
				return nil, err
			}
			cat = loaded
			categories[m.CategoryID] = cat
		}
		if cat == nil {
			continue
		}

		// An incomplete parent chain cannot be surfaced safely.
		if cat.ContestID == "" || cat.Contest == nil || cat.Contest.EventID == "" {
			continue
		}
		if f.ContestID != "" && f.ContestID != cat.ContestID {
			continue
		}
		if f.EventID != "" && f.EventID != cat.Contest.EventID {
			continue
		}
		// Derived entries surface with the default status.
		if f.Status != "" && f.Status != string(models.StatusPending) {
			continue
		}

		entry := models.ReconciledAssignment{
			ID:         "derived-" + m.JudgeID + "-" + m.CategoryID,
			JudgeID:    m.JudgeID,
			CategoryID: m.CategoryID,
			ContestID:  cat.ContestID,
			EventID:    cat.Contest.EventID,
			Status:     models.StatusPending,
			Priority:   0,
			Source:     models.SourceDerived,
		}
		merged[entry.Key()] = entry
	}

	// Explicit records always win over derived entries at the same key.
	for _, a := range explicit {
		categoryID := ""
		if a.CategoryID != nil {
			categoryID = *a.CategoryID
		}
		entry := models.ReconciledAssignment{
			ID:         a.ID,
			JudgeID:    a.JudgeID,
			CategoryID: categoryID,
			ContestID:  a.ContestID,
			EventID:    a.EventID,
			Status:     a.Status,
			Priority:   a.Priority,
			AssignedBy: a.AssignedBy,
			AssignedAt: a.AssignedAt,
			Notes:      a.Notes,
			Source:     models.SourceExplicit,
		}
		merged[entry.Key()] = entry
	}

	view := make([]models.ReconciledAssignment, 0, len(merged))
	for _, entry := range merged {
		view = append(view, entry)
	}

	// Sort for deterministic output
	sort.Slice(view, func(i, j int) bool {
		if view[i].JudgeID != view[j].JudgeID {
			return view[i].JudgeID < view[j].JudgeID
		}
		return view[i].CategoryID < view[j].CategoryID
	})

	return view, nil
}

// CreateInput is the request to create an explicit assignment.
type CreateInput struct {
	JudgeID    string `json:"judge_id"`
	CategoryID string `json:"category_id"`
	ContestID  string `json:"contest_id"`
	Priority   *int   `json:"priority"`
	Notes      string `json:"notes"`
}

// Create persists a new explicit assignment. With a category the contest and
// event are derived from its parent chain; contest-only assignments derive
// the event from the contest. The stored record is returned joined with its
// display relations.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID string) (*models.Assignment, error) {
	if input.JudgeID == "" {
		return nil, apperr.Validation("judge_id is required")
	}
	if input.CategoryID == "" && input.ContestID == "" {
		return nil, apperr.Validation("one of category_id or contest_id is required")
	}

	if _, err := s.store.GetJudge(ctx, input.JudgeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("judge", input.JudgeID)
		}
		return nil, err
	}

	a := &models.Assignment{
		ID:         s.newID(),
		TenantID:   s.tenant,
		JudgeID:    input.JudgeID,
		Status:     models.StatusPending,
		AssignedBy: actorID,
		AssignedAt: s.now(),
		Notes:      input.Notes,
	}
	if input.Priority != nil {
		a.Priority = *input.Priority
	}

	if input.CategoryID != "" {
		cat, err := s.store.GetCategory(ctx, input.CategoryID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("category", input.CategoryID)
		}
		if err != nil {
			return nil, err
		}

		exists, err := s.store.AssignmentExists(ctx, s.tenant, input.JudgeID, input.CategoryID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Conflict("assignment", fmt.Sprintf("judge %q is already assigned to category %q", input.JudgeID, input.CategoryID))
		}

		categoryID := input.CategoryID
		a.CategoryID = &categoryID
		a.ContestID = cat.ContestID
		if cat.Contest != nil {
			a.EventID = cat.Contest.EventID
		}
	} else {
		contest, err := s.store.GetContest(ctx, input.ContestID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("contest", input.ContestID)
		}
		if err != nil {
			return nil, err
		}
		a.ContestID = contest.ID
		a.EventID = contest.EventID
	}

	if err := s.store.CreateAssignment(ctx, a); err != nil {
		// The uniqueness constraint is the real guard against concurrent
		// duplicate creation; the existence pre-check only improves messages.
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.Conflict("assignment", fmt.Sprintf("judge %q is already assigned", input.JudgeID))
		}
		return nil, err
	}

	s.invalidate(a.JudgeID, derefCategory(a.CategoryID))
	s.runHooks(a)

	return s.store.GetAssignment(ctx, a.ID)
}

// UpdateInput carries the patchable assignment fields.
type UpdateInput struct {
	Status   *models.Status `json:"status"`
	Priority *int           `json:"priority"`
	Notes    *string        `json:"notes"`
}

// Update patches an existing assignment. Cache entries are invalidated only
// after the persistence call succeeds, never before.
func (s *Service) Update(ctx context.Context, id string, patch UpdateInput) (*models.Assignment, error) {
	a, err := s.store.GetAssignment(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("assignment", id)
	}
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid status %q", *patch.Status))
		}
		a.Status = *patch.Status
	}
	if patch.Priority != nil {
		a.Priority = *patch.Priority
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}

	if err := s.store.SaveAssignment(ctx, a); err != nil {
		return nil, err
	}

	s.invalidate(a.JudgeID, derefCategory(a.CategoryID))
	return a, nil
}

// Delete removes an explicit assignment.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.store.GetAssignment(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("assignment", id)
	}
	if err != nil {
		return err
	}

	if err := s.store.DeleteAssignment(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("assignment", id)
		}
		return err
	}

	s.invalidate(a.JudgeID, derefCategory(a.CategoryID))
	return nil
}

// BulkAssignResult is the per-item accounting of a bulk judge assignment.
// Every judge resolves to exactly one of Assigned, Skipped or Failed.
type BulkAssignResult struct {
	// Assigned counts newly created assignments.
	Assigned int `json:"assigned"`
	// Skipped counts judges that already had an assignment for the
	// category; these are expected no-ops, not errors.
	Skipped int `json:"skipped"`
	// Failed counts judges whose create failed.
	Failed int              `json:"failed"`
	Errors []bulk.ItemError `json:"errors"`
}

// BulkAssignJudges assigns every listed judge to a category. Judges are
// processed sequentially, not through the bulk executor: each judge needs a
// read-then-conditionally-write sequence, and interleaving two of those for
// the same category could double-create between the check and the write.
func (s *Service) BulkAssignJudges(ctx context.Context, categoryID string, judgeIDs []string, actorID string) (*BulkAssignResult, error) {
	cat, err := s.store.GetCategory(ctx, categoryID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("category", categoryID)
	}
	if err != nil {
		return nil, err
	}

	eventID := ""
	if cat.Contest != nil {
		eventID = cat.Contest.EventID
	}

	result := &BulkAssignResult{Errors: []bulk.ItemError{}}

	for _, judgeID := range judgeIDs {
		exists, err := s.store.AssignmentExists(ctx, s.tenant, judgeID, categoryID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, bulk.ItemError{Item: judgeID, Error: err.Error()})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		catID := categoryID
		a := &models.Assignment{
			ID:         s.newID(),
			TenantID:   s.tenant,
			JudgeID:    judgeID,
			CategoryID: &catID,
			ContestID:  cat.ContestID,
			EventID:    eventID,
			Status:     models.StatusPending,
			AssignedBy: actorID,
			AssignedAt: s.now(),
		}

		switch err := s.store.CreateAssignment(ctx, a); {
		case err == nil:
			result.Assigned++
			s.runHooks(a)
		case errors.Is(err, ErrDuplicate):
			// Raced with a concurrent create; same outcome as the pre-check.
			result.Skipped++
		default:
			result.Failed++
			result.Errors = append(result.Errors, bulk.ItemError{Item: judgeID, Error: err.Error()})
		}
	}

	s.cache.DeletePattern(listCachePrefix)
	for _, judgeID := range judgeIDs {
		s.cache.Delete(judgeCacheKey + judgeID)
	}
	s.cache.Delete(catCacheKey + categoryID)

	s.logger.Info("bulk judge assignment finished",
		zap.String("category_id", categoryID),
		zap.Int("assigned", result.Assigned),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// BulkDelete removes many assignments through the bulk executor.
// NotFound and other per-item errors are recorded, not propagated.
func (s *Service) BulkDelete(ctx context.Context, ids []string, opts bulk.Options) (*bulk.Result, error) {
	return bulk.Execute(ctx, ids, func(ctx context.Context, id string) error {
		return s.Delete(ctx, id)
	}, opts)
}

// BulkUpdateStatus sets the status of many assignments through the bulk
// executor.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status models.Status, opts bulk.Options) (*bulk.Result, error) {
	if !status.IsValid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid status %q", status))
	}

	return bulk.Execute(ctx, ids, func(ctx context.Context, id string) error {
		_, err := s.Update(ctx, id, UpdateInput{Status: &status})
		return err
	}, opts)
}

// invalidate drops the cache entries affected by a mutation: the list prefix
// first, then the judge- and category-scoped keys. Best-effort: a crash in
// between leaves a stale entry that self-heals at TTL expiry.
func (s *Service) invalidate(judgeID, categoryID string) {
	s.cache.DeletePattern(listCachePrefix)
	s.cache.Delete(judgeCacheKey + judgeID)
	if categoryID != "" {
		s.cache.Delete(catCacheKey + categoryID)
	}
}

// runHooks fires the post-commit hooks without awaiting them.
func (s *Service) runHooks(a *models.Assignment) {
	for _, h := range s.hooks {
		hook := h
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("post-commit hook panicked", zap.Any("panic", r))
				}
			}()
			// Detached from the request: the hook outlives request cancellation.
			hook(context.Background(), a)
		}()
	}
}

func derefCategory(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
