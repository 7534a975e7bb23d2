package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/ports"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	_, _, categories := newServices()

	_, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: " ", Color: "#fff"})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: "Work"})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	work, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: " Work ", Color: " #ff0000"})
	require.NoError(t, err)
	assert.Equal(t, " Work ", work.Name)
	assert.Equal(t, " #ff0000", work.Color)

	fetched, err := categories.GetCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, " Work ", fetched.Name)
	assert.Equal(t, " #ff0000", fetched.Color)
}

func TestCategoryService_ListCategories(t *testing.T) {
	ctx := context.Background()
	_, _, categories := newServices()

	for _, name := range []string{"Work", "Home", "Errands"} {
		_, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: name, Color: "#000000"})
		require.NoError(t, err)
	}

	list, err := categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Errands", list[0].Name)
	assert.Equal(t, "Work", list[2].Name)
}

func TestCategoryService_GetCategory(t *testing.T) {
	ctx := context.Background()
	_, tasks, categories := newServices()

	work, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: "Work", Color: "#ff0000"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, ports.CreateTaskRequest{Title: "Report", CategoryID: &work.ID})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, ports.CreateTaskRequest{Title: "Groceries"})
	require.NoError(t, err)

	got, err := categories.GetCategory(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, got.Todos, 1)
	assert.Equal(t, "Report", got.Todos[0].Title)
	assert.Nil(t, got.Todos[0].Category)

	_, err = categories.GetCategory(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	_, _, categories := newServices()

	work, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: "Work", Color: "#ff0000"})
	require.NoError(t, err)

	color := "#00ff00"
	updated, err := categories.UpdateCategory(ctx, work.ID, ports.UpdateCategoryRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, "#00ff00", updated.Color)

	padded := "  Office "
	updated, err = categories.UpdateCategory(ctx, work.ID, ports.UpdateCategoryRequest{Name: &padded})
	require.NoError(t, err)
	assert.Equal(t, "  Office ", updated.Name)

	empty := ""
	_, err = categories.UpdateCategory(ctx, work.ID, ports.UpdateCategoryRequest{Name: &empty})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	blank := "   "
	_, err = categories.UpdateCategory(ctx, work.ID, ports.UpdateCategoryRequest{Color: &blank})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = categories.UpdateCategory(ctx, uuid.New(), ports.UpdateCategoryRequest{Color: &color})
	assert.ErrorIs(t, err, entities.ErrCategoryNotFound)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	ctx := context.Background()
	_, tasks, categories := newServices()

	work, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: "Work", Color: "#ff0000"})
	require.NoError(t, err)
	home, err := categories.CreateCategory(ctx, ports.CreateCategoryRequest{Name: "Home", Color: "#00ff00"})
	require.NoError(t, err)

	for _, title := range []string{"a", "b", "c"} {
		_, err := tasks.CreateTask(ctx, ports.CreateTaskRequest{Title: title, CategoryID: &work.ID})
		require.NoError(t, err)
	}
	_, err = tasks.CreateTask(ctx, ports.CreateTaskRequest{Title: "d", CategoryID: &home.ID})
	require.NoError(t, err)

	require.NoError(t, categories.DeleteCategory(ctx, work.ID))

	list, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)

	var uncategorized int
	for _, task := range list {
		if task.CategoryID == nil {
			uncategorized++
		} else {
			assert.Equal(t, home.ID, *task.CategoryID)
		}
	}
	assert.Equal(t, 3, uncategorized)

	assert.ErrorIs(t, categories.DeleteCategory(ctx, work.ID), entities.ErrCategoryNotFound)
}
