package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

const todoColumns = `id, user_id, title, description, completed, created_at, updated_at`

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + todoColumns

	row := r.pool.QueryRow(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Completed,
	)
	return scanTodo(row)
}

func (r *TodoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	return scanTodo(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *TodoRepository) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	return collectTodos(rows)
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	query := `
		UPDATE todos
		SET    title = $3, description = $4, completed = $5, updated_at = NOW()
		WHERE  id = $1 AND user_id = $2
		RETURNING ` + todoColumns

	row := r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Completed,
	)
	return scanTodo(row)
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) ListIncomplete(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND NOT completed
		ORDER BY created_at, id
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incomplete todos: %w", err)
	}
	defer rows.Close()

	return collectTodos(rows)
}

func collectTodos(rows pgx.Rows) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &t, nil
}
