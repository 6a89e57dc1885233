package dashboard

import (
	"context"
	"fmt"
	"time"

	"scorehub/core/cache"
	assignmentmodels "scorehub/feature/assignment/models"
	usermodels "scorehub/feature/user/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	countersCacheKey = "dashboard:counters"
	countersCacheTTL = 60 * time.Second
)

// Counters is the aggregate entity census shown on the dashboard.
type Counters struct {
	Events      int64 `json:"events"`
	Contests    int64 `json:"contests"`
	Categories  int64 `json:"categories"`
	Judges      int64 `json:"judges"`
	Users       int64 `json:"users"`
	Assignments int64 `json:"assignments"`
}

// Service computes dashboard counters straight off the database, cached
// for a short window since the numbers only feed an overview page.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
	tenant string
}

func NewService(db *gorm.DB, c cache.Cache, logger *zap.Logger, tenant string) *Service {
	return &Service{db: db, cache: c, logger: logger, tenant: tenant}
}

// Counters returns the entity counts for the tenant.
func (s *Service) Counters(ctx context.Context) (*Counters, error) {
	if cached, ok := s.cache.Get(countersCacheKey).(*Counters); ok {
		return cached, nil
	}

	counters := &Counters{}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&assignmentmodels.Event{}, &counters.Events},
		{&assignmentmodels.Contest{}, &counters.Contests},
		{&assignmentmodels.Category{}, &counters.Categories},
		{&assignmentmodels.Judge{}, &counters.Judges},
		{&usermodels.User{}, &counters.Users},
		{&assignmentmodels.Assignment{}, &counters.Assignments},
	}

	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(c.model).
			Where("tenant_id = ?", s.tenant).
			Count(c.dest).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count %T: %w", c.model, err)
		}
	}

	s.cache.Set(countersCacheKey, counters, countersCacheTTL)
	return counters, nil
}
