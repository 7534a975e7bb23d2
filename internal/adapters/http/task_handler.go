package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// TaskHandler handles todo-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.WithComponent("task_handler"),
	}
}

// ListTasks godoc
// @Summary List todos
// @Description List every todo ordered by position, with its category embedded
// @Tags todos
// @Produce json
// @Success 200 {array} entities.Task
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to get todos"})
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create a todo
// @Description Create a todo at the end of the list
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Todo data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{
			op:               "Failed to create todo",
			categoryNotFound: "Category does not exist",
			categoryStatus:   http.StatusBadRequest,
		})
	}

	return c.JSON(http.StatusCreated, task)
}

// RepositionTasks godoc
// @Summary Reorder todos
// @Description Apply a batch of position updates atomically
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.RepositionRequest true "Position updates"
// @Success 200 {array} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos [patch]
func (h *TaskHandler) RepositionTasks(c echo.Context) error {
	var req ports.RepositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.RepositionTasks(c.Request().Context(), req.Updates)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{
			op:           "Failed to update todo positions",
			taskNotFound: "Todo not found",
		})
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get a todo
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := pathID(c, "Todo not found")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to get todo", taskNotFound: "Todo not found"})
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a todo
// @Description Partial update; fields left out are unchanged, null clears description, dueDate and categoryId
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Todo ID"
// @Param request body ports.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c, "Todo not found")
	if err != nil {
		return err
	}

	req, err := decodeTaskUpdate(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, req)
	if err != nil {
		return failure(h.logger, c, err, errorMapping{
			op:               "Failed to update todo",
			taskNotFound:     "Todo not found",
			categoryNotFound: "Category does not exist",
			categoryStatus:   http.StatusBadRequest,
		})
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} ports.MessageResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := pathID(c, "Todo not found")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return failure(h.logger, c, err, errorMapping{op: "Failed to delete todo", taskNotFound: "Todo not found"})
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Todo deleted successfully"})
}

// decodeTaskUpdate reads the body twice: once into the typed request and once
// as raw fields, so an explicit null can be told apart from an absent key.
func decodeTaskUpdate(c echo.Context) (ports.UpdateTaskRequest, error) {
	var req ports.UpdateTaskRequest

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req.ClearDescription = isNull(fields, "description")
	req.ClearDueDate = isNull(fields, "dueDate")
	req.ClearCategory = isNull(fields, "categoryId")

	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return req, nil
}

func isNull(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
