package dashboard

import (
	"scorehub/core/cache"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the dashboard service and handler into the loader.
type Feature struct {
	handler *Handler
}

// NewFeature builds the dashboard feature on a database connection and a
// shared cache.
func NewFeature(db *gorm.DB, c cache.Cache, logger *zap.Logger, tenant string) *Feature {
	service := NewService(db, c, logger, tenant)
	return &Feature{handler: NewHandler(service, logger)}
}

func (f *Feature) Name() string {
	return "dashboard"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(router fiber.Router) error {
	f.handler.RegisterRoutes(router)
	return nil
}
