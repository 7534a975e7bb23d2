package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/database"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db     *database.DB
	logger *logger.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB, log *logger.Logger) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db, logger: log.WithComponent("category_repository")}
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*entities.Category, error) {
	query := `
		SELECT id, name, color, created_at, updated_at
		FROM categories
		ORDER BY name ASC`

	start := time.Now()
	var categories []*entities.Category
	err := r.db.DB.SelectContext(ctx, &categories, query)
	observe(r.logger, "list_categories", start, err)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if categories == nil {
		categories = []*entities.Category{}
	}
	return categories, nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	query := `
		SELECT id, name, color, created_at, updated_at
		FROM categories
		WHERE id = $1`

	start := time.Now()
	var category entities.Category
	err := r.db.DB.GetContext(ctx, &category, query, id)
	observe(r.logger, "get_category", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	query := `
		INSERT INTO categories (id, name, color)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	start := time.Now()
	err := r.db.DB.QueryRowContext(ctx, query, category.ID, category.Name, category.Color).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	observe(r.logger, "create_category", start, err)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", translateError(err))
	}

	return category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	query := `
		UPDATE categories
		SET name = $2, color = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`

	start := time.Now()
	err := r.db.DB.QueryRowContext(ctx, query, category.ID, category.Name, category.Color).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	observe(r.logger, "update_category", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", translateError(err))
	}

	return category, nil
}

// Delete detaches every task from the category and then removes it, both in
// one transaction. If the category does not exist nothing is changed.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var detached int64

	start := time.Now()
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE todos SET category_id = NULL WHERE category_id = $1`, id)
		if err != nil {
			return fmt.Errorf("detach category tasks: %w", err)
		}
		if detached, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		result, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return expectOneRow(result, entities.ErrCategoryNotFound)
	})
	observe(r.logger, "delete_category", start, err)
	if err != nil {
		return 0, err
	}

	return detached, nil
}
