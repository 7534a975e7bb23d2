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

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	taskRepo     ports.TaskRepository
	logger       *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, taskRepo ports.TaskRepository, logger *logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		taskRepo:     taskRepo,
		logger:       logger.WithComponent("category_service"),
	}
}

// ListCategories returns all categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, req ports.CreateCategoryRequest) (*entities.Category, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Color) == "" {
		return nil, fmt.Errorf("%w: name and color are required", entities.ErrInvalidInput)
	}

	category, err := s.categoryRepo.Create(ctx, &entities.Category{Name: req.Name, Color: req.Color})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Infow("Category created successfully", "category_id", category.ID, "name", category.Name)

	return category, nil
}

// GetCategory returns the category together with the tasks filed under it
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	tasks, err := s.taskRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list category tasks: %w", err)
	}

	// The parent is already the enclosing object.
	for _, task := range tasks {
		task.Category = nil
	}
	category.Todos = tasks

	return category, nil
}

// UpdateCategory merges the fields present in req into the stored category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req ports.UpdateCategoryRequest) (*entities.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", entities.ErrInvalidInput)
		}
		existing.Name = *req.Name
	}
	if req.Color != nil {
		if strings.TrimSpace(*req.Color) == "" {
			return nil, fmt.Errorf("%w: color cannot be empty", entities.ErrInvalidInput)
		}
		existing.Color = *req.Color
	}

	updated, err := s.categoryRepo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.Infow("Category updated successfully", "category_id", updated.ID)

	return updated, nil
}

// DeleteCategory removes the category; its tasks survive uncategorized
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	detached, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	tasksDetached.Add(float64(detached))
	s.logger.Infow("Category deleted successfully", "category_id", id, "detached_tasks", detached)

	return nil
}
