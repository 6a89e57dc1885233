package assignment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"scorehub/core/apperr"
	"scorehub/core/bulk"
	"scorehub/core/cache"
	"scorehub/feature/assignment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store with the same structured error contract
// as the GORM implementation.
type fakeStore struct {
	mu          sync.Mutex
	assignments map[string]*models.Assignment
	memberships []models.CategoryJudge
	categories  map[string]*models.Category
	contests    map[string]*models.Contest
	judges      map[string]*models.Judge

	createErr error // injected failure for the next CreateAssignment
	listCalls int   // counts ListAssignments invocations (cache assertions)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assignments: make(map[string]*models.Assignment),
		categories:  make(map[string]*models.Category),
		contests:    make(map[string]*models.Contest),
		judges:      make(map[string]*models.Judge),
	}
}

func (f *fakeStore) GetAssignment(_ context.Context, id string) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assignments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListAssignments(_ context.Context, tenant string, fl Filters) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	var out []models.Assignment
	for _, a := range f.assignments {
		if a.TenantID != tenant {
			continue
		}
		if fl.Status != "" && string(a.Status) != fl.Status {
			continue
		}
		if fl.JudgeID != "" && a.JudgeID != fl.JudgeID {
			continue
		}
		if fl.CategoryID != "" && (a.CategoryID == nil || *a.CategoryID != fl.CategoryID) {
			continue
		}
		if fl.ContestID != "" && a.ContestID != fl.ContestID {
			continue
		}
		if fl.EventID != "" && a.EventID != fl.EventID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}

	for _, existing := range f.assignments {
		if existing.TenantID == a.TenantID && existing.JudgeID == a.JudgeID &&
			existing.CategoryID != nil && a.CategoryID != nil && *existing.CategoryID == *a.CategoryID {
			return ErrDuplicate
		}
	}

	copied := *a
	f.assignments[a.ID] = &copied
	return nil
}

func (f *fakeStore) SaveAssignment(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	f.assignments[a.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteAssignment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(f.assignments, id)
	return nil
}

func (f *fakeStore) AssignmentExists(_ context.Context, tenant, judgeID, categoryID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.TenantID == tenant && a.JudgeID == judgeID && a.CategoryID != nil && *a.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListMemberships(_ context.Context, tenant, judgeID, categoryID string) ([]models.CategoryJudge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CategoryJudge
	for _, m := range f.memberships {
		if m.TenantID != tenant {
			continue
		}
		if judgeID != "" && m.JudgeID != judgeID {
			continue
		}
		if categoryID != "" && m.CategoryID != categoryID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) GetCategory(_ context.Context, id string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) GetContest(_ context.Context, id string) (*models.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contests[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) GetJudge(_ context.Context, id string) (*models.Judge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.judges[id]; ok {
		return j, nil
	}
	return nil, ErrNotFound
}

// seedHierarchy creates event E1 -> contest CO1 -> category C1 and judges
// J1, J2.
func seedHierarchy(store *fakeStore) {
	contest := &models.Contest{ID: "CO1", TenantID: "t1", EventID: "E1", Name: "Pastry"}
	store.contests["CO1"] = contest
	store.categories["C1"] = &models.Category{ID: "C1", TenantID: "t1", ContestID: "CO1", Name: "Croissants", Contest: contest}
	store.judges["J1"] = &models.Judge{ID: "J1", TenantID: "t1", Name: "Judge One"}
	store.judges["J2"] = &models.Judge{ID: "J2", TenantID: "t1", Name: "Judge Two"}
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, cache.New(), zap.NewNop(), "t1")
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc
}

func TestGetAll_ExplicitWinsOverDerived(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)

	// Implicit roster membership and an explicit record for the same key
	store.memberships = append(store.memberships, models.CategoryJudge{
		ID: "m1", TenantID: "t1", JudgeID: "J1", CategoryID: "C1",
	})
	catID := "C1"
	store.assignments["a1"] = &models.Assignment{
		ID: "a1", TenantID: "t1", JudgeID: "J1", CategoryID: &catID,
		ContestID: "CO1", EventID: "E1",
		Status: models.StatusActive, Priority: 7, Notes: "head judge",
	}

	svc := newTestService(store)
	view, err := svc.GetAll(context.Background(), Filters{})
	require.NoError(t, err)

	// Dedup invariant: one entry per (judge, category)
	require.Len(t, view, 1)

	// Precedence invariant: the explicit record's fields, never defaults
	entry := view[0]
	assert.Equal(t, "a1", entry.ID)
	assert.Equal(t, models.SourceExplicit, entry.Source)
	assert.Equal(t, models.StatusActive, entry.Status)
	assert.Equal(t, 7, entry.Priority)
	assert.Equal(t, "head judge", entry.Notes)
}

func TestGetAll_DerivedEntrySynthesized(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	store.memberships = append(store.memberships, models.CategoryJudge{
		ID: "m1", TenantID: "t1", JudgeID: "J2", CategoryID: "C1",
	})

	svc := newTestService(store)
	view, err := svc.GetAll(context.Background(), Filters{})
	require.NoError(t, err)
	require.Len(t, view, 1)

	entry := view[0]
	assert.Equal(t, models.SourceDerived, entry.Source)
	assert.Equal(t, models.StatusPending, entry.Status)
	assert.Equal(t, 0, entry.Priority)
	assert.Equal(t, "derived-J2-C1", entry.ID)
	// Walked from the category's parent chain
	assert.Equal(t, "CO1", entry.ContestID)
	assert.Equal(t, "E1", entry.EventID)
}

func TestGetAll_IncompleteChainDropped(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)

	// Category with no parent contest cannot be surfaced safely
	store.categories["C-orphan"] = &models.Category{ID: "C-orphan", TenantID: "t1", Name: "Orphan"}
	store.memberships = append(store.memberships,
		models.CategoryJudge{ID: "m1", TenantID: "t1", JudgeID: "J1", CategoryID: "C-orphan"},
		models.CategoryJudge{ID: "m2", TenantID: "t1", JudgeID: "J1", CategoryID: "C-gone"},
		models.CategoryJudge{ID: "m3", TenantID: "t1", JudgeID: "J2", CategoryID: "C1"},
	)

	svc := newTestService(store)
	view, err := svc.GetAll(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, "J2", view[0].JudgeID)
}

func TestGetAll_WalkedFiltersApply(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	store.memberships = append(store.memberships, models.CategoryJudge{
		ID: "m1", TenantID: "t1", JudgeID: "J1", CategoryID: "C1",
	})

	svc := newTestService(store)

	matched, err := svc.GetAll(context.Background(), Filters{EventID: "E1"})
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	other, err := svc.GetAll(context.Background(), Filters{EventID: "E-other"})
	require.NoError(t, err)
	assert.Empty(t, other)

	// Derived entries carry the default status only
	active, err := svc.GetAll(context.Background(), Filters{Status: string(models.StatusActive)})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGetAll_CachesByFingerprint(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	_, err := svc.GetAll(context.Background(), Filters{JudgeID: "J1"})
	require.NoError(t, err)
	calls := store.listCalls

	// Same fingerprint: served from cache
	_, err = svc.GetAll(context.Background(), Filters{JudgeID: "J1"})
	require.NoError(t, err)
	assert.Equal(t, calls, store.listCalls)

	// Different fingerprint: new query
	_, err = svc.GetAll(context.Background(), Filters{JudgeID: "J2"})
	require.NoError(t, err)
	assert.Equal(t, calls+1, store.listCalls)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{CategoryID: "C1"}, "admin")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Create(context.Background(), CreateInput{JudgeID: "J1"}, "admin")
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_NotFound(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), CreateInput{JudgeID: "J-missing", CategoryID: "C1"}, "admin")
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C-missing"}, "admin")
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Create(context.Background(), CreateInput{JudgeID: "J1", ContestID: "CO-missing"}, "admin")
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreate_DerivesParentChain(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "CO1", created.ContestID)
	assert.Equal(t, "E1", created.EventID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, 0, created.Priority)
	assert.Equal(t, "admin", created.AssignedBy)
}

func TestCreate_ContestOnlyDerivesEvent(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", ContestID: "CO1"}, "admin")
	require.NoError(t, err)

	assert.Nil(t, created.CategoryID)
	assert.Equal(t, "CO1", created.ContestID)
	assert.Equal(t, "E1", created.EventID)
}

func TestCreate_DuplicateConflicts(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	assert.True(t, apperr.IsConflict(err))
}

func TestCreate_InvalidatesJudgeScopedCache(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	// Prime the cache for J1
	before, err := svc.GetAll(context.Background(), Filters{JudgeID: "J1"})
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	// No stale read: create invalidated the list prefix and judge key
	after, err := svc.GetAll(context.Background(), Filters{JudgeID: "J1"})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, models.SourceExplicit, after[0].Source)
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	status := models.StatusActive
	prio := 5
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &status, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
	assert.Equal(t, 5, updated.Priority)

	bad := models.Status("NONSENSE")
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Status: &bad})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Update(context.Background(), "missing", UpdateInput{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.True(t, apperr.IsNotFound(svc.Delete(context.Background(), created.ID)))
}

func TestBulkAssignJudges_Idempotent(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	first, err := svc.BulkAssignJudges(context.Background(), "C1", []string{"J1", "J2"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Assigned)
	assert.Equal(t, 0, first.Skipped)

	second, err := svc.BulkAssignJudges(context.Background(), "C1", []string{"J1", "J2"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Assigned)
	assert.Equal(t, 2, second.Skipped)

	// Live assignments for the category stay at 2
	view, err := svc.GetByCategory(context.Background(), "C1")
	require.NoError(t, err)
	assert.Len(t, view, 2)
}

func TestBulkAssignJudges_CategoryNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.BulkAssignJudges(context.Background(), "C-missing", []string{"J1"}, "admin")
	assert.True(t, apperr.IsNotFound(err))
}

func TestBulkAssignJudges_RecordsFailures(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	store.createErr = fmt.Errorf("connection reset")
	svc := newTestService(store)

	result, err := svc.BulkAssignJudges(context.Background(), "C1", []string{"J1", "J2"}, "admin")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Assigned)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "J1", result.Errors[0].Item)
}

func TestBulkDelete(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	a, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	result, err := svc.BulkDelete(context.Background(), []string{a.ID, "missing"}, bulk.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
}

func TestBulkUpdateStatus(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	a1, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)
	a2, err := svc.Create(context.Background(), CreateInput{JudgeID: "J2", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	result, err := svc.BulkUpdateStatus(context.Background(), []string{a1.ID, a2.ID}, models.StatusActive, bulk.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Successful)

	_, err = svc.BulkUpdateStatus(context.Background(), []string{a1.ID}, models.Status("BOGUS"), bulk.Options{})
	assert.True(t, apperr.IsValidation(err))
}

func TestPostCommitHooks(t *testing.T) {
	store := newFakeStore()
	seedHierarchy(store)
	svc := newTestService(store)

	done := make(chan string, 1)
	svc.OnCreate(func(_ context.Context, a *models.Assignment) {
		done <- a.JudgeID
	})

	_, err := svc.Create(context.Background(), CreateInput{JudgeID: "J1", CategoryID: "C1"}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "J1", <-done)
}
