package user

import (
	"context"
	"errors"

	"scorehub/feature/user/models"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the tenant/email uniqueness
	// constraint rejects a write.
	ErrDuplicate = errors.New("duplicate user")
)

// Filters narrows a user listing.
type Filters struct {
	Role   string
	Active *bool
	Limit  int
	Offset int
}

// Store is the persistence boundary for users.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, tenant string, f Filters) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}
