package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/database"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

var taskColumns = []string{
	"id", "title", "description", "completed", "due_date", "priority", "position",
	"category_id", "created_at", "updated_at",
	"category_name", "category_color", "category_created_at", "category_updated_at",
}

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return database.Wrap(sqlx.NewDb(raw, "postgres")), mock
}

func addTaskRow(rows *sqlmock.Rows, id uuid.UUID, title string, position int, category *entities.Category) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if category == nil {
		return rows.AddRow(id.String(), title, nil, false, nil, "MEDIUM", position, nil, now, now, nil, nil, nil, nil)
	}
	return rows.AddRow(id.String(), title, "details", false, now, "HIGH", position,
		category.ID.String(), now, now, category.Name, category.Color, now, now)
}

func TestTaskRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, logger.NewNop())

	work := &entities.Category{ID: uuid.New(), Name: "Work", Color: "#ff0000"}
	first, second := uuid.New(), uuid.New()

	rows := sqlmock.NewRows(taskColumns)
	addTaskRow(rows, first, "Report", 0, work)
	addTaskRow(rows, second, "Groceries", 1, nil)

	mock.ExpectQuery("FROM todos t LEFT JOIN categories c ON c.id = t.category_id ORDER BY t.position ASC").
		WillReturnRows(rows)

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, first, tasks[0].ID)
	require.NotNil(t, tasks[0].Category)
	assert.Equal(t, "Work", tasks[0].Category.Name)
	assert.Equal(t, work.ID, *tasks[0].CategoryID)
	assert.Equal(t, entities.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].Description)
	assert.Equal(t, "details", *tasks[0].Description)
	assert.NotNil(t, tasks[0].DueDate)

	assert.Equal(t, second, tasks[1].ID)
	assert.Nil(t, tasks[1].Category)
	assert.Nil(t, tasks[1].CategoryID)
	assert.Nil(t, tasks[1].Description)
	assert.Nil(t, tasks[1].DueDate)
	assert.Equal(t, 1, tasks[1].Position)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(taskColumns))

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_Create(t *testing.T) {
	t.Run("computes position in the insert and returns the stored row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		work := &entities.Category{ID: uuid.New(), Name: "Work", Color: "#ff0000"}
		task := &entities.Task{Title: "Report", Priority: entities.PriorityHigh, CategoryID: &work.ID}

		mock.ExpectExec(regexp.QuoteMeta("(SELECT COALESCE(MAX(position) + 1, 0) FROM todos)")).
			WithArgs(sqlmock.AnyArg(), "Report", nil, false, nil, "HIGH", work.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows := sqlmock.NewRows(taskColumns)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1")).
			WillReturnRows(addTaskRow(rows, uuid.New(), "Report", 3, work))

		created, err := repo.Create(context.Background(), task)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, 3, created.Position)
		assert.Equal(t, "Work", created.Category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())
		missing := uuid.New()

		mock.ExpectExec("INSERT INTO todos").
			WillReturnError(&pq.Error{Code: "23503"})

		_, err := repo.Create(context.Background(), &entities.Task{Title: "x", Priority: entities.PriorityLow, CategoryID: &missing})
		assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
	})

	t.Run("check violation is invalid input", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		mock.ExpectExec("INSERT INTO todos").
			WillReturnError(&pq.Error{Code: "23514", Constraint: "todos_title_check"})

		_, err := repo.Create(context.Background(), &entities.Task{Priority: entities.PriorityLow})
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})
}

func TestTaskRepository_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		mock.ExpectExec("UPDATE todos SET title").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Update(context.Background(), &entities.Task{ID: uuid.New(), Title: "x", Priority: entities.PriorityLow})
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears nullable columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())
		id := uuid.New()

		mock.ExpectExec("UPDATE todos SET title").
			WithArgs(id, "Report", nil, true, nil, "LOW", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1")).
			WillReturnRows(addTaskRow(sqlmock.NewRows(taskColumns), id, "Report", 0, nil))

		task := &entities.Task{ID: id, Title: "Report", Completed: true, Priority: entities.PriorityLow}
		updated, err := repo.Update(context.Background(), task)
		require.NoError(t, err)
		assert.Nil(t, updated.CategoryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, logger.NewNop())
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), entities.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdatePositions(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	updates := []ports.PositionUpdate{{ID: c, Position: 0}, {ID: a, Position: 1}, {ID: b, Position: 2}}

	t.Run("commits every update and returns request order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		mock.ExpectBegin()
		for _, u := range updates {
			mock.ExpectExec("UPDATE todos SET position").
				WithArgs(u.Position, u.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		rows := sqlmock.NewRows(taskColumns)
		addTaskRow(rows, a, "A", 1, nil)
		addTaskRow(rows, b, "B", 2, nil)
		addTaskRow(rows, c, "C", 0, nil)
		mock.ExpectQuery("WHERE t.id = ANY").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(rows)

		tasks, err := repo.UpdatePositions(context.Background(), updates)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []uuid.UUID{c, a, b}, []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id rolls back the batch", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE todos SET position").
			WithArgs(0, c).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE todos SET position").
			WithArgs(1, a).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.UpdatePositions(context.Background(), updates)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, logger.NewNop())

		tasks, err := repo.UpdatePositions(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
