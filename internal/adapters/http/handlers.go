package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// RegisterRoutes mounts the todo and category resources on g
func RegisterRoutes(g *echo.Group, tasks *TaskHandler, categories *CategoryHandler) {
	todoGroup := g.Group("/todos")
	todoGroup.GET("", tasks.ListTasks)
	todoGroup.POST("", tasks.CreateTask)
	todoGroup.PATCH("", tasks.RepositionTasks)
	todoGroup.GET("/:id", tasks.GetTask)
	todoGroup.PUT("/:id", tasks.UpdateTask)
	todoGroup.DELETE("/:id", tasks.DeleteTask)

	categoryGroup := g.Group("/categories")
	categoryGroup.GET("", categories.ListCategories)
	categoryGroup.POST("", categories.CreateCategory)
	categoryGroup.GET("/:id", categories.GetCategory)
	categoryGroup.PUT("/:id", categories.UpdateCategory)
	categoryGroup.DELETE("/:id", categories.DeleteCategory)
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the echo validator used for request payloads
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

// pathID parses the :id parameter. A malformed identifier cannot match any
// row, so it is reported the same way as a missing one.
func pathID(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}

// errorMapping tells failure which message to use for each outcome.
type errorMapping struct {
	op               string
	taskNotFound     string
	categoryNotFound string
	categoryStatus   int
}

// failure turns a service error into the HTTP error for this operation.
// Anything unexpected is logged and reported with the generic op message.
func failure(log *logger.Logger, c echo.Context, err error, m errorMapping) error {
	switch {
	case m.taskNotFound != "" && errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, m.taskNotFound)
	case m.categoryNotFound != "" && errors.Is(err, entities.ErrCategoryNotFound):
		status := m.categoryStatus
		if status == 0 {
			status = http.StatusNotFound
		}
		return echo.NewHTTPError(status, m.categoryNotFound)
	case errors.Is(err, entities.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	log.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID)).WithError(err).Errorw(m.op)
	return echo.NewHTTPError(http.StatusInternalServerError, m.op)
}

// ErrorHandler renders every error as {"error": message}
func ErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  = http.StatusText(http.StatusInternalServerError)
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, ports.ErrorResponse{Error: msg})
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
