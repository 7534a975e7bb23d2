package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/database"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

const taskSelect = `
	SELECT t.id, t.title, t.description, t.completed, t.due_date, t.priority, t.position,
		t.category_id, t.created_at, t.updated_at,
		c.name AS category_name, c.color AS category_color,
		c.created_at AS category_created_at, c.updated_at AS category_updated_at
	FROM todos t
	LEFT JOIN categories c ON c.id = t.category_id`

const taskOrder = ` ORDER BY t.position ASC, t.created_at ASC, t.id ASC`

// taskRow is one todos row joined with its optional category.
type taskRow struct {
	ID          uuid.UUID      `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Completed   bool           `db:"completed"`
	DueDate     sql.NullTime   `db:"due_date"`
	Priority    string         `db:"priority"`
	Position    int            `db:"position"`
	CategoryID  uuid.NullUUID  `db:"category_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`

	CategoryName      sql.NullString `db:"category_name"`
	CategoryColor     sql.NullString `db:"category_color"`
	CategoryCreatedAt sql.NullTime   `db:"category_created_at"`
	CategoryUpdatedAt sql.NullTime   `db:"category_updated_at"`
}

func (r taskRow) toEntity() *entities.Task {
	task := &entities.Task{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
		Priority:  entities.Priority(r.Priority),
		Position:  r.Position,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.Description.Valid {
		desc := r.Description.String
		task.Description = &desc
	}
	if r.DueDate.Valid {
		due := r.DueDate.Time
		task.DueDate = &due
	}
	if r.CategoryID.Valid {
		categoryID := r.CategoryID.UUID
		task.CategoryID = &categoryID
		if r.CategoryName.Valid {
			task.Category = &entities.Category{
				ID:        categoryID,
				Name:      r.CategoryName.String,
				Color:     r.CategoryColor.String,
				CreatedAt: r.CategoryCreatedAt.Time,
				UpdatedAt: r.CategoryUpdatedAt.Time,
			}
		}
	}

	return task
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db     *database.DB
	logger *logger.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB, log *logger.Logger) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db, logger: log.WithComponent("task_repository")}
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]*entities.Task, error) {
	start := time.Now()

	var rows []taskRow
	err := r.db.DB.SelectContext(ctx, &rows, taskSelect+taskOrder)
	observe(r.logger, "list_todos", start, err)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return toTasks(rows), nil
}

func (r *TaskRepositoryImpl) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Task, error) {
	start := time.Now()

	var rows []taskRow
	err := r.db.DB.SelectContext(ctx, &rows, taskSelect+` WHERE t.category_id = $1`+taskOrder, categoryID)
	observe(r.logger, "list_todos_by_category", start, err)
	if err != nil {
		return nil, fmt.Errorf("list tasks by category: %w", err)
	}

	return toTasks(rows), nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	return r.getByID(ctx, r.db.DB, id)
}

func (r *TaskRepositoryImpl) getByID(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*entities.Task, error) {
	start := time.Now()

	var row taskRow
	err := sqlx.GetContext(ctx, q, &row, taskSelect+` WHERE t.id = $1`, id)
	observe(r.logger, "get_todo", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return row.toEntity(), nil
}

// Create stores the task at the end of the list. The position is computed in
// the insert itself so it is one past the current maximum, or 0 when empty.
func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	query := `
		INSERT INTO todos (id, title, description, completed, due_date, priority, category_id, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT COALESCE(MAX(position) + 1, 0) FROM todos))`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	start := time.Now()
	_, err := r.db.DB.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Completed,
		task.DueDate, task.Priority, task.CategoryID,
	)
	observe(r.logger, "create_todo", start, err)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", translateError(err))
	}

	return r.GetByID(ctx, task.ID)
}

// Update writes every mutable column of task. Position is owned by
// UpdatePositions and is left untouched.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	query := `
		UPDATE todos
		SET title = $2, description = $3, completed = $4, due_date = $5,
			priority = $6, category_id = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	start := time.Now()
	result, err := r.db.DB.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Completed,
		task.DueDate, task.Priority, task.CategoryID,
	)
	observe(r.logger, "update_todo", start, err)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", translateError(err))
	}

	if err := expectOneRow(result, entities.ErrTaskNotFound); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, task.ID)
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	observe(r.logger, "delete_todo", start, err)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return expectOneRow(result, entities.ErrTaskNotFound)
}

// UpdatePositions applies every update in a single transaction. An id that
// matches no row aborts the whole batch with ErrTaskNotFound. The updated
// tasks are returned in request order.
func (r *TaskRepositoryImpl) UpdatePositions(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	if len(updates) == 0 {
		return []*entities.Task{}, nil
	}

	query := `UPDATE todos SET position = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	start := time.Now()
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, u := range updates {
			result, err := tx.ExecContext(ctx, query, u.Position, u.ID)
			if err != nil {
				return fmt.Errorf("update task position: %w", err)
			}
			if err := expectOneRow(result, entities.ErrTaskNotFound); err != nil {
				return err
			}
		}
		return nil
	})
	observe(r.logger, "reposition_todos", start, err)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID.String()
	}

	var rows []taskRow
	start = time.Now()
	err = r.db.DB.SelectContext(ctx, &rows, taskSelect+` WHERE t.id = ANY($1::uuid[])`, pq.Array(ids))
	observe(r.logger, "list_repositioned_todos", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch repositioned tasks: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.Task, len(rows))
	for _, row := range rows {
		byID[row.ID] = row.toEntity()
	}

	tasks := make([]*entities.Task, 0, len(updates))
	for _, u := range updates {
		if task, ok := byID[u.ID]; ok {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

func toTasks(rows []taskRow) []*entities.Task {
	tasks := make([]*entities.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toEntity()
	}
	return tasks
}
