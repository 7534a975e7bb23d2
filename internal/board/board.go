// Package board holds the todo board's view state and actions independently of
// any UI toolkit.
package board

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/client"
	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
	"github.com/taskmaster/todos/internal/ports"
)

// ErrBusy is returned when an action starts while another is still in flight.
var ErrBusy = errors.New("another change is still being saved")

// API is the subset of the REST client the board drives.
type API interface {
	ListTodos(ctx context.Context) ([]*entities.Task, error)
	CreateTodo(ctx context.Context, in client.TodoInput) (*entities.Task, error)
	UpdateTodo(ctx context.Context, id uuid.UUID, patch client.TodoPatch) (*entities.Task, error)
	DeleteTodo(ctx context.Context, id uuid.UUID) error
	UpdateTodoPositions(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error)
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	CreateCategory(ctx context.Context, in client.CategoryInput) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in client.CategoryInput) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// NoticeKind classifies a user-facing notification
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message for the user.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Board is the single source of truth for what the UI shows. Reads may happen
// concurrently with an in-flight action; at most one action runs at a time.
type Board struct {
	api    API
	logger *logger.Logger

	mu         sync.RWMutex
	tasks      []*entities.Task
	categories []*entities.Category
	filter     Filter
	notice     *Notice
	submitting bool
}

func New(api API, log *logger.Logger) *Board {
	return &Board{
		api:    api,
		logger: log.WithComponent("board"),
		filter: Filter{Status: StatusAll},
	}
}

// Load fetches todos and categories from the API.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.ListTodos(ctx)
	if err != nil {
		return b.fail("Failed to load todos", err)
	}
	categories, err := b.api.ListCategories(ctx)
	if err != nil {
		return b.fail("Failed to load categories", err)
	}

	sortByPosition(tasks)

	b.mu.Lock()
	b.tasks = tasks
	b.categories = categories
	if b.filter.CategoryID != nil && findCategory(categories, *b.filter.CategoryID) == nil {
		b.filter.CategoryID = nil
	}
	b.mu.Unlock()
	return nil
}

// Tasks returns every loaded task in position order.
func (b *Board) Tasks() []*entities.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*entities.Task(nil), b.tasks...)
}

func (b *Board) Categories() []*entities.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*entities.Category(nil), b.categories...)
}

// Category looks up a loaded category by id.
func (b *Board) Category(id uuid.UUID) *entities.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return findCategory(b.categories, id)
}

// Visible returns the tasks passing the current filter, in position order.
func (b *Board) Visible() []*entities.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Apply(b.tasks, b.filter.Predicates()...)
}

func (b *Board) Filter() Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

func (b *Board) SetFilter(f Filter) {
	if f.Status == "" {
		f.Status = StatusAll
	}
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()
}

func (b *Board) ResetFilters() {
	b.SetFilter(Filter{})
}

func (b *Board) FiltersActive() bool {
	return b.Filter().Active()
}

// Submitting reports whether an action is in flight.
func (b *Board) Submitting() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.submitting
}

// Notice returns the latest notification, if any.
func (b *Board) Notice() (Notice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.notice == nil {
		return Notice{}, false
	}
	return *b.notice, true
}

func (b *Board) DismissNotice() {
	b.mu.Lock()
	b.notice = nil
	b.mu.Unlock()
}

// Reorder moves the visible task at index from to index to and persists the
// resulting order of the visible list.
func (b *Board) Reorder(ctx context.Context, from, to int) error {
	if err := b.begin(); err != nil {
		return err
	}
	defer b.end()

	b.mu.Lock()
	visible := Apply(b.tasks, b.filter.Predicates()...)
	if from == to || from < 0 || to < 0 || from >= len(visible) || to >= len(visible) {
		b.mu.Unlock()
		return nil
	}

	moved := visible[from]
	visible = append(visible[:from:from], visible[from+1:]...)
	visible = append(visible[:to], append([]*entities.Task{moved}, visible[to:]...)...)

	updates := make([]ports.PositionUpdate, len(visible))
	positions := make(map[uuid.UUID]int, len(visible))
	for i, t := range visible {
		updates[i] = ports.PositionUpdate{ID: t.ID, Position: i}
		positions[t.ID] = i
	}

	next := make([]*entities.Task, len(b.tasks))
	for i, t := range b.tasks {
		if pos, ok := positions[t.ID]; ok {
			cp := *t
			cp.Position = pos
			t = &cp
		}
		next[i] = t
	}
	sortByPosition(next)
	b.tasks = next
	b.mu.Unlock()

	if _, err := b.api.UpdateTodoPositions(ctx, updates); err != nil {
		reloadErr := b.Load(ctx)
		if reloadErr != nil {
			b.logger.Errorw("reload after failed reorder", "error", reloadErr)
		}
		return b.fail("Failed to reorder todos", err)
	}

	b.succeed("Todos reordered")
	return nil
}

// CreateTodo validates the form and appends the created task.
func (b *Board) CreateTodo(ctx context.Context, form TodoForm) (*entities.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, b.invalid(err)
	}
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.end()

	task, err := b.api.CreateTodo(ctx, form.input())
	if err != nil {
		return nil, b.fail("Failed to create todo", err)
	}

	b.mu.Lock()
	b.tasks = append(b.tasks, task)
	sortByPosition(b.tasks)
	b.mu.Unlock()

	b.succeed("Todo created")
	return task, nil
}

// UpdateTodo replaces every editable field of a task with the form's values.
func (b *Board) UpdateTodo(ctx context.Context, id uuid.UUID, form TodoForm) (*entities.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, b.invalid(err)
	}
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.end()

	task, err := b.api.UpdateTodo(ctx, id, form.patch())
	if err != nil {
		return nil, b.fail("Failed to update todo", err)
	}

	b.replace(task)
	b.succeed("Todo updated")
	return task, nil
}

func (b *Board) ToggleCompleted(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	current := b.task(id)
	if current == nil {
		return nil, b.fail("Todo not found", entities.ErrTaskNotFound)
	}
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.end()

	done := !current.Completed
	task, err := b.api.UpdateTodo(ctx, id, client.TodoPatch{Completed: &done})
	if err != nil {
		return nil, b.fail("Failed to update todo", err)
	}

	b.replace(task)
	if done {
		b.succeed("Todo completed")
	} else {
		b.succeed("Todo reopened")
	}
	return task, nil
}

func (b *Board) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := b.begin(); err != nil {
		return err
	}
	defer b.end()

	if err := b.api.DeleteTodo(ctx, id); err != nil {
		return b.fail("Failed to delete todo", err)
	}

	b.mu.Lock()
	for i, t := range b.tasks {
		if t.ID == id {
			b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.succeed("Todo deleted")
	return nil
}

// CreateCategory saves a new category and reloads the board.
func (b *Board) CreateCategory(ctx context.Context, form CategoryForm) (*entities.Category, error) {
	if err := form.Validate(); err != nil {
		return nil, b.invalid(err)
	}
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.end()

	category, err := b.api.CreateCategory(ctx, form.input())
	if err != nil {
		return nil, b.fail("Failed to create category", err)
	}
	if err := b.Load(ctx); err != nil {
		return category, err
	}

	b.succeed("Category created")
	return category, nil
}

// UpdateCategory reloads afterwards since tasks embed their category.
func (b *Board) UpdateCategory(ctx context.Context, id uuid.UUID, form CategoryForm) (*entities.Category, error) {
	if err := form.Validate(); err != nil {
		return nil, b.invalid(err)
	}
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.end()

	category, err := b.api.UpdateCategory(ctx, id, form.input())
	if err != nil {
		return nil, b.fail("Failed to update category", err)
	}
	if err := b.Load(ctx); err != nil {
		return category, err
	}

	b.succeed("Category updated")
	return category, nil
}

// DeleteCategory removes a category; its tasks stay on the board uncategorized.
func (b *Board) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := b.begin(); err != nil {
		return err
	}
	defer b.end()

	if err := b.api.DeleteCategory(ctx, id); err != nil {
		return b.fail("Failed to delete category", err)
	}
	if err := b.Load(ctx); err != nil {
		return err
	}

	b.succeed("Category deleted")
	return nil
}

func (b *Board) begin() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitting {
		return ErrBusy
	}
	b.submitting = true
	return nil
}

func (b *Board) end() {
	b.mu.Lock()
	b.submitting = false
	b.mu.Unlock()
}

func (b *Board) task(id uuid.UUID) *entities.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Board) replace(task *entities.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, t := range b.tasks {
		if t.ID == task.ID {
			b.tasks[i] = task
			return
		}
	}
	b.tasks = append(b.tasks, task)
	sortByPosition(b.tasks)
}

func (b *Board) notify(kind NoticeKind, text string) {
	b.mu.Lock()
	b.notice = &Notice{Kind: kind, Text: text}
	b.mu.Unlock()
}

func (b *Board) succeed(text string) {
	b.notify(NoticeSuccess, text)
}

// fail records a user-facing notice and logs the underlying error.
func (b *Board) fail(text string, err error) error {
	b.logger.Errorw(text, "error", err)
	b.notify(NoticeError, text)
	return err
}

// invalid notifies with the validation message, e.g. "Title is required".
func (b *Board) invalid(err error) error {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidForm.Error()+": ")
	b.notify(NoticeError, strings.ToUpper(msg[:1])+msg[1:])
	return err
}

func findCategory(categories []*entities.Category, id uuid.UUID) *entities.Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func sortByPosition(tasks []*entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Position < tasks[j].Position
	})
}
