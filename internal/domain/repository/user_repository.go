package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user-related database operations.
// Emails are compared lowercased. Lookups that do not mention the password leave it empty.
type UserRepository interface {
	// Create hashes u.Password (unless it is already a hash) and fills ID, Status and timestamps.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, upd entity.UserUpdate) (*entity.User, error)
	SoftDelete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]entity.User, error)
	Ping(ctx context.Context) error
}
