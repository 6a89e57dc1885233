package dashboard

import (
	"scorehub/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/dashboard/counters", h.HandleCounters)
}

// HandleCounters godoc
// @Summary Entity counts for the dashboard overview
// @Tags dashboard
// @Produce json
// @Success 200 {object} Counters
// @Router /dashboard/counters [get]
func (h *Handler) HandleCounters(c *fiber.Ctx) error {
	counters, err := h.service.Counters(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("failed to compute counters", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute counters"})
	}
	return c.JSON(counters)
}
