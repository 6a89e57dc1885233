package assignment

import (
	"scorehub/core/apperr"
	"scorehub/core/bulk"
	"scorehub/core/logger"
	"scorehub/feature/assignment/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for assignments.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the assignment routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/assignments")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Patch("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/bulk-delete", h.HandleBulkDelete)
	group.Post("/bulk-status", h.HandleBulkStatus)

	app.Get("/judges/:id/assignments", h.HandleListByJudge)
	app.Get("/categories/:id/assignments", h.HandleListByCategory)
	app.Post("/categories/:id/judges", h.HandleBulkAssign)
}

// actorID resolves the acting user for audit fields.
func actorID(c *fiber.Ctx) string {
	if actor := c.Get("X-Actor-ID"); actor != "" {
		return actor
	}
	return "system"
}

// fail translates a service error into the boundary's status mapping.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)

	status := apperr.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		l.Error("Assignment request failed", zap.Error(err))
	} else {
		l.Warn("Assignment request rejected", zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleList returns the reconciled assignment view.
// @Summary List Assignments
// @Description Returns the reconciled view of explicit assignments and implicit roster memberships, filterable by status, judge, category, contest and event.
// @Tags assignments
// @Accept json
// @Produce json
// @Param status query string false "Lifecycle status filter"
// @Param judge_id query string false "Judge filter"
// @Param category_id query string false "Category filter"
// @Param contest_id query string false "Contest filter"
// @Param event_id query string false "Event filter"
// @Success 200 {array} models.ReconciledAssignment
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /assignments [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f := Filters{
		Status:     c.Query("status"),
		JudgeID:    c.Query("judge_id"),
		CategoryID: c.Query("category_id"),
		ContestID:  c.Query("contest_id"),
		EventID:    c.Query("event_id"),
	}

	view, err := h.service.GetAll(c.Context(), f)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(view)
}

// HandleListByJudge returns the reconciled view for a single judge.
// @Summary List Assignments By Judge
// @Tags assignments
// @Produce json
// @Param id path string true "Judge ID"
// @Success 200 {array} models.ReconciledAssignment
// @Router /judges/{id}/assignments [get]
func (h *Handler) HandleListByJudge(c *fiber.Ctx) error {
	view, err := h.service.GetByJudge(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleListByCategory returns the reconciled view for a single category.
// @Summary List Assignments By Category
// @Tags assignments
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {array} models.ReconciledAssignment
// @Router /categories/{id}/assignments [get]
func (h *Handler) HandleListByCategory(c *fiber.Ctx) error {
	view, err := h.service.GetByCategory(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleCreate creates an explicit assignment.
// @Summary Create Assignment
// @Description Creates an explicit assignment for a judge. With a category the contest and event are derived from the category's parent chain.
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body CreateInput true "Assignment input"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Referenced Entity Not Found"
// @Failure 409 {object} map[string]string "Duplicate Assignment"
// @Router /assignments [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return h.fail(c, apperr.Validation("malformed request body"))
	}

	created, err := h.service.Create(c.Context(), input, actorID(c))
	if err != nil {
		return h.fail(c, err)
	}

	l := logger.WithRayID(h.logger, c)
	l.Info("Assignment created",
		zap.String("assignment_id", created.ID),
		zap.String("judge_id", created.JudgeID),
	)

	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate patches an assignment.
// @Summary Update Assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body UpdateInput true "Patch"
// @Success 200 {object} models.Assignment
// @Failure 404 {object} map[string]string "Not Found"
// @Router /assignments/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var patch UpdateInput
	if err := c.BodyParser(&patch); err != nil {
		return h.fail(c, apperr.Validation("malformed request body"))
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(updated)
}

// HandleDelete removes an assignment.
// @Summary Delete Assignment
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /assignments/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// bulkAssignRequest is the body of a bulk judge assignment.
type bulkAssignRequest struct {
	JudgeIDs []string `json:"judge_ids"`
}

// HandleBulkAssign assigns many judges to one category.
// @Summary Bulk Assign Judges
// @Description Assigns every listed judge to the category. Judges already assigned are skipped silently; the response accounts for every judge.
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param body body bulkAssignRequest true "Judge IDs"
// @Success 200 {object} BulkAssignResult
// @Failure 404 {object} map[string]string "Category Not Found"
// @Router /categories/{id}/judges [post]
func (h *Handler) HandleBulkAssign(c *fiber.Ctx) error {
	var req bulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperr.Validation("malformed request body"))
	}
	if len(req.JudgeIDs) == 0 {
		return h.fail(c, apperr.Validation("judge_ids is required"))
	}

	result, err := h.service.BulkAssignJudges(c.Context(), c.Params("id"), req.JudgeIDs, actorID(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(result)
}

// bulkItemsRequest is the shared body of the generic bulk mutations.
type bulkItemsRequest struct {
	IDs         []string `json:"ids"`
	Status      string   `json:"status,omitempty"`
	BatchSize   int      `json:"batch_size,omitempty"`
	StopOnError bool     `json:"stop_on_error,omitempty"`
}

// HandleBulkDelete removes many assignments.
// @Summary Bulk Delete Assignments
// @Description Deletes the listed assignments in batches. Per-item failures are recorded in the result, not raised.
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body bulkItemsRequest true "Assignment IDs"
// @Success 200 {object} bulk.Result
// @Router /assignments/bulk-delete [post]
func (h *Handler) HandleBulkDelete(c *fiber.Ctx) error {
	var req bulkItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperr.Validation("malformed request body"))
	}
	if len(req.IDs) == 0 {
		return h.fail(c, apperr.Validation("ids is required"))
	}

	result, err := h.service.BulkDelete(c.Context(), req.IDs, bulk.Options{
		BatchSize:   req.BatchSize,
		StopOnError: req.StopOnError,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(result)
}

// HandleBulkStatus updates the status of many assignments.
// @Summary Bulk Update Assignment Status
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body bulkItemsRequest true "Assignment IDs and target status"
// @Success 200 {object} bulk.Result
// @Router /assignments/bulk-status [post]
func (h *Handler) HandleBulkStatus(c *fiber.Ctx) error {
	var req bulkItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, apperr.Validation("malformed request body"))
	}
	if len(req.IDs) == 0 {
		return h.fail(c, apperr.Validation("ids is required"))
	}

	result, err := h.service.BulkUpdateStatus(c.Context(), req.IDs, models.Status(req.Status), bulk.Options{
		BatchSize:   req.BatchSize,
		StopOnError: req.StopOnError,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(result)
}
