package repository

import (
	"context"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/google/uuid"
)

// TodoRepository scopes every operation to the owning user; a todo that
// exists but belongs to someone else is domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListIncomplete(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Todo, error)
}
