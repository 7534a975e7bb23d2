package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/client"
	"github.com/taskmaster/todos/internal/domain/entities"
)

// DefaultColor is preselected for new categories.
const DefaultColor = "#6366F1"

// ErrInvalidForm wraps every form validation failure.
var ErrInvalidForm = errors.New("invalid form")

var validate = validator.New()

// TodoForm is the editable state behind the create/edit todo dialog.
type TodoForm struct {
	Title       string            `validate:"required"`
	Description string            `validate:"-"`
	DueDate     *time.Time        `validate:"-"`
	Priority    entities.Priority `validate:"required,oneof=LOW MEDIUM HIGH"`
	CategoryID  *uuid.UUID        `validate:"-"`
}

// NewTodoForm returns an empty form with the default priority.
func NewTodoForm() TodoForm {
	return TodoForm{Priority: entities.DefaultPriority}
}

// EditTodoForm prefills a form from an existing task.
func EditTodoForm(t *entities.Task) TodoForm {
	form := TodoForm{
		Title:      t.Title,
		DueDate:    t.DueDate,
		Priority:   t.Priority,
		CategoryID: t.CategoryID,
	}
	if t.Description != nil {
		form.Description = *t.Description
	}
	if form.Priority == "" {
		form.Priority = entities.DefaultPriority
	}
	return form
}

// Validate trims the text fields and checks the form.
func (f *TodoForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return check(f)
}

func (f TodoForm) input() client.TodoInput {
	in := client.TodoInput{
		Title:      f.Title,
		DueDate:    f.DueDate,
		Priority:   f.Priority,
		CategoryID: f.CategoryID,
	}
	if f.Description != "" {
		desc := f.Description
		in.Description = &desc
	}
	return in
}

// patch maps empty optional fields to explicit clears.
func (f TodoForm) patch() client.TodoPatch {
	title := f.Title
	priority := f.Priority
	p := client.TodoPatch{
		Title:    &title,
		Priority: &priority,
	}

	if f.Description == "" {
		p.ClearDescription = true
	} else {
		desc := f.Description
		p.Description = &desc
	}

	if f.DueDate == nil {
		p.ClearDueDate = true
	} else {
		p.DueDate = f.DueDate
	}

	if f.CategoryID == nil {
		p.ClearCategory = true
	} else {
		p.CategoryID = f.CategoryID
	}
	return p
}

// CategoryForm is the editable state behind the category dialog.
type CategoryForm struct {
	Name  string `validate:"required"`
	Color string `validate:"required,hexcolor"`
}

func NewCategoryForm() CategoryForm {
	return CategoryForm{Color: DefaultColor}
}

func EditCategoryForm(c *entities.Category) CategoryForm {
	return CategoryForm{Name: c.Name, Color: c.Color}
}

func (f *CategoryForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Color = strings.TrimSpace(f.Color)
	return check(f)
}

func (f CategoryForm) input() client.CategoryInput {
	return client.CategoryInput{Name: f.Name, Color: f.Color}
}

func check(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidForm, field)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidForm, field, fe.Param())
	case "hexcolor":
		return fmt.Errorf("%w: %s must be a hex color like %s", ErrInvalidForm, field, DefaultColor)
	default:
		return fmt.Errorf("%w: %s is invalid", ErrInvalidForm, field)
	}
}
