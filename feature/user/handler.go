package user

import (
	"io"
	"strconv"

	"scorehub/core/apperr"
	"scorehub/core/bulk"
	"scorehub/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for users.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/users")
	group.Get("/", h.HandleList)
	group.Get("/export", h.HandleExport)
	group.Get("/:id", h.HandleGet)
	group.Post("/", h.HandleCreate)
	group.Patch("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/import/validate", h.HandleImportValidate)
	group.Post("/import", h.HandleImport)
}

// fail maps service errors onto HTTP status codes.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	log := logger.WithRayID(h.logger, c)

	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("user request failed", zap.Error(err))
	} else {
		log.Warn("user request rejected", zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleList godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Router /users [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f := Filters{
		Role:   c.Query("role"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return h.fail(c, apperr.Validation("active must be a boolean"))
		}
		f.Active = &active
	}

	users, err := h.service.List(c.Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(users)
}

// HandleGet godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	u, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(u)
}

// HandleCreate godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateInput true "User to create"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return h.fail(c, apperr.Validation("invalid request body"))
	}

	created, err := h.service.Create(c.Context(), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body UpdateInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var patch UpdateInput
	if err := c.BodyParser(&patch); err != nil {
		return h.fail(c, apperr.Validation("invalid request body"))
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

// HandleDelete godoc
// @Summary Delete a user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /users/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// readUpload pulls the uploaded CSV out of a multipart request.
func readUpload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, apperr.Validation("multipart field 'file' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperr.Validation("could not open uploaded file")
	}
	defer f.Close()

	return io.ReadAll(f)
}

// HandleImportValidate godoc
// @Summary Validate a user CSV without importing
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ValidationReport
// @Failure 400 {object} map[string]string
// @Router /users/import/validate [post]
func (h *Handler) HandleImportValidate(c *fiber.Ctx) error {
	buf, err := readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}

	report, err := h.service.ValidateCSV(buf)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleImport godoc
// @Summary Import users from a CSV file
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param batch_size query int false "Executor batch size"
// @Param stop_on_error query bool false "Abort on first failure"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Router /users/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	buf, err := readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}

	opts := bulk.Options{
		BatchSize:   c.QueryInt("batch_size"),
		StopOnError: c.QueryBool("stop_on_error"),
	}

	result, err := h.service.BulkImport(c.Context(), buf, opts)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// HandleExport godoc
// @Summary Export users as CSV
// @Tags users
// @Produce text/csv
// @Param archive query bool false "Also upload the file to the object store"
// @Success 200 {string} string "CSV payload"
// @Router /users/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	out, err := h.service.ExportCSV(c.Context(), c.QueryBool("archive"))
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.SendString(out)
}
