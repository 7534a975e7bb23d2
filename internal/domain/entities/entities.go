package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// DefaultPriority is assigned to tasks created without an explicit priority.
const DefaultPriority = PriorityMedium

// Priorities lists every priority in ascending order of urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Task represents a todo item
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	Priority    Priority   `json:"priority" db:"priority"`
	CategoryID  *uuid.UUID `json:"categoryId" db:"category_id"`
	Category    *Category  `json:"category"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Category groups tasks under a name and display color
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Todos     []*Task   `json:"todos,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Business logic methods for Task

func (t *Task) InCategory(categoryID uuid.UUID) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// Matches reports whether the lowercase search term occurs in the title or description.
func (t *Task) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(t.Title), term) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term)
}

func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return now.After(*t.DueDate)
}

// DetachCategory clears both the reference and the embedded category.
func (t *Task) DetachCategory() {
	t.CategoryID = nil
	t.Category = nil
}

// Utility methods
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// Next cycles LOW -> MEDIUM -> HIGH -> LOW.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}
