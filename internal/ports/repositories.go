package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/todos/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	List(ctx context.Context) ([]*entities.Task, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) (*entities.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePositions(ctx context.Context, updates []PositionUpdate) ([]*entities.Task, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]*entities.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	Create(ctx context.Context, category *entities.Category) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) (*entities.Category, error)
	// Delete detaches every task from the category and removes it in one
	// transaction. It returns the number of detached tasks.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// PositionUpdate assigns a new display position to one task
type PositionUpdate struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Position int       `json:"position" validate:"min=0"`
}
