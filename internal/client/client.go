// Package client is the typed data-access layer over the todos REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/ports"
)

var (
	// ErrRequestFailed is wrapped by every non-2xx response.
	ErrRequestFailed = errors.New("request failed")
	// ErrNotFound is wrapped by 404 responses.
	ErrNotFound = errors.New("not found")
)

// Error describes a failed API call without exposing the response body.
type Error struct {
	Op         string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{ErrRequestFailed, ErrNotFound}
	}
	return []error{ErrRequestFailed}
}

// Client calls the todos API. It never retries or caches.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TodoInput is the payload for creating a todo.
type TodoInput struct {
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Completed   bool              `json:"completed"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	Priority    entities.Priority `json:"priority,omitempty"`
	CategoryID  *uuid.UUID        `json:"categoryId,omitempty"`
}

// TodoPatch is a partial update. Unset fields are omitted from the payload and
// the Clear flags send an explicit null.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *entities.Priority
	CategoryID  *uuid.UUID

	ClearDescription bool
	ClearDueDate     bool
	ClearCategory    bool
}

// MarshalJSON emits only the fields that were set.
func (p TodoPatch) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{})

	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Completed != nil {
		fields["completed"] = *p.Completed
	}
	if p.Priority != nil {
		fields["priority"] = *p.Priority
	}

	switch {
	case p.ClearDescription:
		fields["description"] = nil
	case p.Description != nil:
		fields["description"] = *p.Description
	}

	switch {
	case p.ClearDueDate:
		fields["dueDate"] = nil
	case p.DueDate != nil:
		fields["dueDate"] = p.DueDate.UTC()
	}

	switch {
	case p.ClearCategory:
		fields["categoryId"] = nil
	case p.CategoryID != nil:
		fields["categoryId"] = p.CategoryID.String()
	}

	return json.Marshal(fields)
}

// CategoryInput is the payload for creating or fully updating a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (c *Client) ListTodos(ctx context.Context) ([]*entities.Task, error) {
	var tasks []*entities.Task
	err := c.do(ctx, "list todos", http.MethodGet, "/todos", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTodo(ctx context.Context, in TodoInput) (*entities.Task, error) {
	var task entities.Task
	if err := c.do(ctx, "create todo", http.MethodPost, "/todos", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTodo(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var task entities.Task
	if err := c.do(ctx, "get todo", http.MethodGet, "/todos/"+id.String(), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id uuid.UUID, patch TodoPatch) (*entities.Task, error) {
	var task entities.Task
	if err := c.do(ctx, "update todo", http.MethodPut, "/todos/"+id.String(), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, "delete todo", http.MethodDelete, "/todos/"+id.String(), nil, nil)
}

// UpdateTodoPositions sends the full target ordering in one request.
func (c *Client) UpdateTodoPositions(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	var tasks []*entities.Task
	err := c.do(ctx, "update todo positions", http.MethodPatch, "/todos", ports.RepositionRequest{Updates: updates}, &tasks)
	return tasks, err
}

func (c *Client) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	err := c.do(ctx, "list categories", http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*entities.Category, error) {
	var category entities.Category
	if err := c.do(ctx, "create category", http.MethodPost, "/categories", in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	var category entities.Category
	if err := c.do(ctx, "get category", http.MethodGet, "/categories/"+id.String(), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*entities.Category, error) {
	var category entities.Category
	if err := c.do(ctx, "update category", http.MethodPut, "/categories/"+id.String(), in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, "delete category", http.MethodDelete, "/categories/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
