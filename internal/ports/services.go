package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/todos/internal/domain/entities"
)

// TaskService interface for task management operations
type TaskService interface {
	ListTasks(ctx context.Context) ([]*entities.Task, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	RepositionTasks(ctx context.Context, updates []PositionUpdate) ([]*entities.Task, error)
}

// CategoryService interface for category management operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*entities.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// Request/Response Types

// Task related types
type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description *string           `json:"description"`
	Completed   bool              `json:"completed"`
	DueDate     *time.Time        `json:"dueDate"`
	Priority    entities.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CategoryID  *uuid.UUID        `json:"categoryId"`
}

// UpdateTaskRequest is a partial update. Nil pointers leave the stored value
// untouched; the Clear flags are set when the payload carried an explicit null.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Completed   *bool              `json:"completed"`
	DueDate     *time.Time         `json:"dueDate"`
	Priority    *entities.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CategoryID  *uuid.UUID         `json:"categoryId"`

	ClearDescription bool `json:"-"`
	ClearDueDate     bool `json:"-"`
	ClearCategory    bool `json:"-"`
}

type RepositionRequest struct {
	Updates []PositionUpdate `json:"updates" validate:"required,dive"`
}

// Category related types
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
