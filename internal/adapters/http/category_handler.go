package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService ports.CategoryService
	logger          *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService ports.CategoryService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.WithComponent("category_handler"),
	}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} entities.Category
// @Failure 500 {object} ports.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to get categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ports.CreateCategoryRequest true "Category data"
// @Success 201 {object} entities.Category
// @Failure 400 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req ports.CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to create category"})
	}

	return c.JSON(http.StatusCreated, category)
}

// GetCategory godoc
// @Summary Get a category with its todos
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} entities.Category
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "Category not found")
	if err != nil {
		return err
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to get category", categoryNotFound: "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body ports.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} entities.Category
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "Category not found")
	if err != nil {
		return err
	}

	var req ports.UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to update category", categoryNotFound: "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Todos in the category are kept and become uncategorized
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} ports.MessageResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "Category not found")
	if err != nil {
		return err
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to delete category", categoryNotFound: "Category not found"})
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Category deleted successfully"})
}
