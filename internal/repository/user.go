package repository

import (
	"context"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/google/uuid"
)

// UserRepository reports ordinary lookup misses as domain.ErrUserNotFound
// and uniqueness collisions as domain.ErrUserExists; other errors are
// infrastructure failures.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	ListVerified(ctx context.Context) ([]*domain.User, error)
}
