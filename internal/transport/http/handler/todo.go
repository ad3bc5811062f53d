package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/transport/http/middleware"
	"github.com/caxgpt/todo-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TodoHandler struct {
	uc     *usecase.TodoUsecase
	logger *slog.Logger
}

func NewTodoHandler(uc *usecase.TodoUsecase, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{uc: uc, logger: logger.With("component", "todo_handler")}
}

type todoRequest struct {
	Title       string  `json:"title" binding:"required,max=256"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

type patchTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=256"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// GET /api/todos?page=&per_page=
func (h *TodoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := h.uc.ListTodos(c.Request.Context(), usecase.ListTodosInput{
		UserID:  middleware.UserID(c),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list todos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	items := make([]todoResponse, len(result.Todos))
	for i, t := range result.Todos {
		items[i] = toTodoResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    result.Count,
		"next":     result.Next,
		"previous": result.Previous,
		"todos":    items,
	})
}

// GET /api/todos/:id
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": errTodoNotFound})
		return
	}

	t, err := h.uc.GetTodo(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		h.respondTodoError(c, id, "get todo", err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(t))
}

// POST /api/todos
func (h *TodoHandler) Create(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	t, err := h.uc.CreateTodo(c.Request.Context(), usecase.CreateTodoInput{
		UserID:      middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create todo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toTodoResponse(t))
}

// PUT /api/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": errTodoNotFound})
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	t, err := h.uc.UpdateTodo(c.Request.Context(), usecase.UpdateTodoInput{
		ID:          id,
		UserID:      middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondTodoError(c, id, "update todo", err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(t))
}

// PATCH /api/todos/:id
func (h *TodoHandler) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": errTodoNotFound})
		return
	}

	var req patchTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	t, err := h.uc.PatchTodo(c.Request.Context(), usecase.PatchTodoInput{
		ID:          id,
		UserID:      middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondTodoError(c, id, "patch todo", err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(t))
}

// DELETE /api/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": errTodoNotFound})
		return
	}

	if err := h.uc.DeleteTodo(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		h.respondTodoError(c, id, "delete todo", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TodoHandler) respondTodoError(c *gin.Context, id uuid.UUID, op string, err error) {
	if errors.Is(err, domain.ErrTodoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": errTodoNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "todo_id", id, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
}
