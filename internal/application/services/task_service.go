package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo     ports.TaskRepository
	categoryRepo ports.CategoryRepository
	logger       *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, categoryRepo ports.CategoryRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		logger:       logger.WithComponent("task_service"),
	}
}

// ListTasks returns every task in display order
func (s *TaskService) ListTasks(ctx context.Context) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask creates a new task at the end of the list
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", entities.ErrInvalidInput)
	}

	priority := req.Priority
	if priority == "" {
		priority = entities.DefaultPriority
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidInput, priority)
	}

	// Verify category exists if provided
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	task := &entities.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    priority,
		CategoryID:  req.CategoryID,
	}

	createdTask, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	tasksCreated.Inc()
	s.logger.Infow("Task created successfully", "task_id", createdTask.ID, "position", createdTask.Position)

	return createdTask, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateTask merges the fields present in req into the stored task
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	// Get existing task
	existingTask, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	// Update fields
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", entities.ErrInvalidInput)
		}
		existingTask.Title = *req.Title
	}

	switch {
	case req.ClearDescription:
		existingTask.Description = nil
	case req.Description != nil:
		existingTask.Description = req.Description
	}

	if req.Completed != nil {
		existingTask.Completed = *req.Completed
	}

	switch {
	case req.ClearDueDate:
		existingTask.DueDate = nil
	case req.DueDate != nil:
		existingTask.DueDate = req.DueDate
	}

	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidInput, *req.Priority)
		}
		existingTask.Priority = *req.Priority
	}

	switch {
	case req.ClearCategory:
		existingTask.DetachCategory()
	case req.CategoryID != nil:
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		existingTask.CategoryID = req.CategoryID
		existingTask.Category = nil
	}

	updatedTask, err := s.taskRepo.Update(ctx, existingTask)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated successfully", "task_id", updatedTask.ID)

	return updatedTask, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted successfully", "task_id", id)

	return nil
}

// RepositionTasks applies a full target ordering. Either every position is
// written or none is.
func (s *TaskService) RepositionTasks(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	for _, u := range updates {
		if u.Position < 0 {
			return nil, fmt.Errorf("%w: negative position for task %s", entities.ErrInvalidInput, u.ID)
		}
	}

	tasks, err := s.taskRepo.UpdatePositions(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to reposition tasks: %w", err)
	}

	tasksRepositioned.Add(float64(len(updates)))
	s.logger.Infow("Tasks repositioned successfully", "count", len(updates))

	return tasks, nil
}

func (s *TaskService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to verify category %s: %w", id, err)
	}
	return nil
}
