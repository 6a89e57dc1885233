package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scorehub/core/apperr"
	"scorehub/core/bulk"
	"scorehub/core/csvio"
	"scorehub/core/storage"
	"scorehub/core/utils"
	"scorehub/feature/user/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// exportColumns fixes the CSV column order for exports.
var exportColumns = []string{"id", "name", "email", "role", "active"}

// Service implements user CRUD and the two-phase CSV import pipeline.
type Service struct {
	store   Store
	storage storage.Client
	bucket  string
	logger  *zap.Logger
	tenant  string

	now   func() time.Time
	newID func() string
}

// NewService creates the user service. storageClient may be nil when no
// object store is configured; export archiving is then unavailable.
func NewService(store Store, storageClient storage.Client, bucket string, logger *zap.Logger, tenant string) *Service {
	return &Service{
		store:   store,
		storage: storageClient,
		bucket:  bucket,
		logger:  logger,
		tenant:  tenant,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ImportSchema describes the accepted user CSV shape. Extra columns are
// tolerated; the listed required columns must be present in the header.
func ImportSchema() csvio.Schema {
	return csvio.Schema{Fields: []csvio.FieldRule{
		{Name: "name", Required: true},
		{Name: "email", Required: true, Pattern: csvio.EmailPattern, PatternDesc: "email address", Lower: true},
		{Name: "password", Required: true},
		{Name: "role", Required: true, Enum: models.Roles()},
		{Name: "active", Bool: true},
	}}
}

// List returns users matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]models.User, error) {
	return s.store.ListUsers(ctx, s.tenant, f)
}

// Get loads one user.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("user", id)
	}
	return u, err
}

// CreateInput is the request to create a user.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// Create persists a new user with a bcrypt password hash. A duplicate
// email within the tenant is a Conflict.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	if input.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !csvio.EmailPattern.MatchString(email) {
		return nil, apperr.Validation(fmt.Sprintf("invalid email address %q", input.Email))
	}
	if input.Password == "" {
		return nil, apperr.Validation("password is required")
	}
	role := models.Role(strings.ToUpper(input.Role))
	if !role.IsValid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid role %q", input.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           s.newID(),
		TenantID:     s.tenant,
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if input.Active != nil {
		u.Active = *input.Active
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.Conflict("user", fmt.Sprintf("email %q already registered", email))
		}
		return nil, err
	}

	return u, nil
}

// UpdateInput carries the patchable user fields.
type UpdateInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

// Update patches an existing user.
func (s *Service) Update(ctx context.Context, id string, patch UpdateInput) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		role := models.Role(strings.ToUpper(*patch.Role))
		if !role.IsValid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid role %q", *patch.Role))
		}
		u.Role = role
	}
	if patch.Active != nil {
		u.Active = *patch.Active
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("user", id)
	}
	return err
}

// ValidationReport summarizes the dry-run phase of an import.
type ValidationReport struct {
	TotalRows int                     `json:"total_rows"`
	ValidRows int                     `json:"valid_rows"`
	Errors    []csvio.ValidationError `json:"errors"`
}

// ValidateCSV runs the validation phase only: parse, header check, row
// checks. Nothing is persisted.
func (s *Service) ValidateCSV(buf []byte) (*ValidationReport, error) {
	header, rows, err := csvio.Parse(buf)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := csvio.RequireColumns(header, ImportSchema().RequiredColumns()); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	valid, rowErrs := csvio.Validate(rows, ImportSchema())
	return &ValidationReport{
		TotalRows: len(rows),
		ValidRows: len(valid),
		Errors:    rowErrs,
	}, nil
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	TotalRows int                     `json:"total_rows"`
	Imported  int                     `json:"imported"`
	Failed    int                     `json:"failed"`
	RowErrors []csvio.ValidationError `json:"row_errors"`
	Errors    []bulk.ItemError        `json:"errors"`
}

// BulkImport runs both phases: validate the file, then create the valid
// rows through the bulk executor. A file with zero valid rows is rejected
// outright. Invalid rows never block valid ones.
func (s *Service) BulkImport(ctx context.Context, buf []byte, opts bulk.Options) (*ImportResult, error) {
	header, rows, err := csvio.Parse(buf)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := csvio.RequireColumns(header, ImportSchema().RequiredColumns()); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	valid, rowErrs := csvio.Validate(rows, ImportSchema())
	if len(valid) == 0 {
		return nil, apperr.Validation("no valid rows in file")
	}

	result, err := bulk.Execute(ctx, valid, func(ctx context.Context, row csvio.Row) error {
		active := true
		if v, ok := row["active"]; ok {
			active = utils.ToBool(v)
		}
		_, err := s.Create(ctx, CreateInput{
			Name:     row["name"],
			Email:    row["email"],
			Password: row["password"],
			Role:     row["role"],
			Active:   &active,
		})
		return err
	}, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user import finished",
		zap.Int("rows", len(rows)),
		zap.Int("imported", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("rejected", len(rowErrs)),
	)

	return &ImportResult{
		TotalRows: len(rows),
		Imported:  result.Successful,
		Failed:    result.Failed,
		RowErrors: rowErrs,
		Errors:    result.Errors,
	}, nil
}

// ExportCSV renders every user as CSV. With archive set the rendered file
// is also uploaded to the object store under exports/.
func (s *Service) ExportCSV(ctx context.Context, archive bool) (string, error) {
	users, err := s.store.ListUsers(ctx, s.tenant, Filters{})
	if err != nil {
		return "", err
	}

	records := make([]csvio.Row, 0, len(users))
	for _, u := range users {
		records = append(records, csvio.Row{
			"id":     u.ID,
			"name":   u.Name,
			"email":  u.Email,
			"role":   string(u.Role),
			"active": fmt.Sprintf("%t", u.Active),
		})
	}

	out, err := csvio.Export(records, exportColumns, nil)
	if err != nil {
		return "", err
	}

	if archive {
		if s.storage == nil {
			return "", apperr.Validation("no object store configured for archiving")
		}
		objectName := fmt.Sprintf("exports/users_%s.csv", s.now().UTC().Format("20060102T150405"))
		_, err := s.storage.PutObject(ctx, s.bucket, objectName,
			strings.NewReader(out), int64(len(out)),
			minio.PutObjectOptions{ContentType: "text/csv"})
		if err != nil {
			return "", fmt.Errorf("failed to archive export: %w", err)
		}
		s.logger.Info("export archived",
			zap.String("bucket", s.bucket),
			zap.String("object", objectName),
			zap.Int("users", len(users)),
		)
	}

	return out, nil
}
