package repository

import (
	"context"
	"errors"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
)

// Sentinel errors implementations translate storage-specific failures into,
// so services stay storage-agnostic.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines the storage interface for user records.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
