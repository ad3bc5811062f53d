package usecase

import (
	"context"
	"fmt"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type TodoUsecase struct {
	repo repository.TodoRepository
}

func NewTodoUsecase(repo repository.TodoRepository) *TodoUsecase {
	return &TodoUsecase{repo: repo}
}

type CreateTodoInput struct {
	UserID      uuid.UUID
	Title       string
	Description *string
	Completed   bool
}

func (u *TodoUsecase) CreateTodo(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	t := &domain.Todo{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}

	created, err := u.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return created, nil
}

func (u *TodoUsecase) GetTodo(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	t, err := u.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type ListTodosInput struct {
	UserID  uuid.UUID
	Page    int
	PerPage int
}

// TodoPage mirrors the paginated wire shape: next/previous hold relative
// query strings, nil when there is no further page in that direction.
type TodoPage struct {
	Count    int
	Next     *string
	Previous *string
	Todos    []*domain.Todo
}

func (u *TodoUsecase) ListTodos(ctx context.Context, input ListTodosInput) (*TodoPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	offset := (page - 1) * perPage
	todos, err := u.repo.List(ctx, input.UserID, offset, perPage)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	result := &TodoPage{Count: len(todos), Todos: todos}

	// A full page suggests there may be more; an exact-boundary false
	// positive costs one empty follow-up request.
	if len(todos) == perPage {
		next := fmt.Sprintf("?page=%d&per_page=%d", page+1, perPage)
		result.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("?page=%d&per_page=%d", page-1, perPage)
		result.Previous = &previous
	}

	return result, nil
}

type UpdateTodoInput struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description *string
	Completed   bool
}

// UpdateTodo replaces every mutable field (PUT semantics).
func (u *TodoUsecase) UpdateTodo(ctx context.Context, input UpdateTodoInput) (*domain.Todo, error) {
	t, err := u.repo.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	t.Title = input.Title
	t.Description = input.Description
	t.Completed = input.Completed

	updated, err := u.repo.Update(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return updated, nil
}

type PatchTodoInput struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       *string
	Description *string
	Completed   *bool
}

// PatchTodo updates only the fields present in the request.
func (u *TodoUsecase) PatchTodo(ctx context.Context, input PatchTodoInput) (*domain.Todo, error) {
	t, err := u.repo.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = input.Description
	}
	if input.Completed != nil {
		t.Completed = *input.Completed
	}

	updated, err := u.repo.Update(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("patch todo: %w", err)
	}
	return updated, nil
}

func (u *TodoUsecase) DeleteTodo(ctx context.Context, id, userID uuid.UUID) error {
	if err := u.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	return nil
}
