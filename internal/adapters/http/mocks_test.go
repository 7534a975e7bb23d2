package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/ports"
)

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) ListTasks(ctx context.Context) ([]*entities.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]*entities.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	args := m.Called(ctx, req)
	task, _ := args.Get(0).(*entities.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*entities.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	args := m.Called(ctx, id, req)
	task, _ := args.Get(0).(*entities.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTaskService) RepositionTasks(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	args := m.Called(ctx, updates)
	tasks, _ := args.Get(0).([]*entities.Task)
	return tasks, args.Error(1)
}

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*entities.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, req ports.CreateCategoryRequest) (*entities.Category, error) {
	args := m.Called(ctx, req)
	category, _ := args.Get(0).(*entities.Category)
	return category, args.Error(1)
}

func (m *mockCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*entities.Category)
	return category, args.Error(1)
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req ports.UpdateCategoryRequest) (*entities.Category, error) {
	args := m.Called(ctx, id, req)
	category, _ := args.Get(0).(*entities.Category)
	return category, args.Error(1)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
