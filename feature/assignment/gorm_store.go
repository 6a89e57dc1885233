package assignment

import (
	"context"
	"errors"
	"fmt"

	"scorehub/feature/assignment/models"

	"gorm.io/gorm"
)

// GormStore is the GORM-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database connection in a Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.WithContext(ctx).
		Preload("Judge").
		Preload("Category").
		Preload("Category.Contest").
		First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	return &a, nil
}

func (s *GormStore) ListAssignments(ctx context.Context, tenant string, f Filters) ([]models.Assignment, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenant)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.JudgeID != "" {
		q = q.Where("judge_id = ?", f.JudgeID)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.ContestID != "" {
		q = q.Where("contest_id = ?", f.ContestID)
	}
	if f.EventID != "" {
		q = q.Where("event_id = ?", f.EventID)
	}

	var out []models.Assignment
	if err := q.Order("priority DESC, assigned_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return out, nil
}

func (s *GormStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	err := s.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (s *GormStore) SaveAssignment(ctx context.Context, a *models.Assignment) error {
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteAssignment(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AssignmentExists(ctx context.Context, tenant, judgeID, categoryID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("tenant_id = ? AND judge_id = ? AND category_id = ?", tenant, judgeID, categoryID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check assignment existence: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListMemberships(ctx context.Context, tenant, judgeID, categoryID string) ([]models.CategoryJudge, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenant)
	if judgeID != "" {
		q = q.Where("judge_id = ?", judgeID)
	}
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var out []models.CategoryJudge
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).Preload("Contest").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &c, nil
}

func (s *GormStore) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	var c models.Contest
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contest: %w", err)
	}
	return &c, nil
}

func (s *GormStore) GetJudge(ctx context.Context, id string) (*models.Judge, error) {
	var j models.Judge
	err := s.db.WithContext(ctx).First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load judge: %w", err)
	}
	return &j, nil
}
