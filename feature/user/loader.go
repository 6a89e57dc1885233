package user

import (
	"scorehub/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the user service and handler into the loader.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature builds the user feature on a database connection and an
// optional object-store client for export archiving.
func NewFeature(db *gorm.DB, storageClient storage.Client, bucket string, logger *zap.Logger, tenant string) *Feature {
	service := NewService(NewGormStore(db), storageClient, bucket, logger, tenant)
	return &Feature{
		service: service,
		handler: NewHandler(service, logger),
	}
}

// Service exposes the user service to other features and commands.
func (f *Feature) Service() *Service {
	return f.service
}

func (f *Feature) Name() string {
	return "user"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(router fiber.Router) error {
	f.handler.RegisterRoutes(router)
	return nil
}
