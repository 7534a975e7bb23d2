package board

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/client"
	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/ports"
)

// fakeAPI behaves like the server for the calls the board makes.
type fakeAPI struct {
	tasks      map[uuid.UUID]*entities.Task
	categories map[uuid.UUID]*entities.Category

	positionsErr error
	listCalls    int
	lastPatch    client.TodoPatch
	lastUpdates  []ports.PositionUpdate

	// block, when set, parks CreateTodo until it is closed
	block chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tasks:      make(map[uuid.UUID]*entities.Task),
		categories: make(map[uuid.UUID]*entities.Category),
	}
}

func (f *fakeAPI) seedCategory(name string) *entities.Category {
	c := &entities.Category{ID: uuid.New(), Name: name, Color: DefaultColor}
	f.categories[c.ID] = c
	return c
}

func (f *fakeAPI) seedTask(title string, mods ...func(*entities.Task)) *entities.Task {
	t := &entities.Task{ID: uuid.New(), Title: title, Priority: entities.PriorityMedium, Position: len(f.tasks)}
	for _, mod := range mods {
		mod(t)
	}
	f.tasks[t.ID] = t
	return t
}

func (f *fakeAPI) ListTodos(ctx context.Context) ([]*entities.Task, error) {
	f.listCalls++
	out := make([]*entities.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeAPI) CreateTodo(ctx context.Context, in client.TodoInput) (*entities.Task, error) {
	if f.block != nil {
		<-f.block
	}
	t := &entities.Task{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		CategoryID:  in.CategoryID,
		Position:    len(f.tasks),
	}
	f.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeAPI) UpdateTodo(ctx context.Context, id uuid.UUID, patch client.TodoPatch) (*entities.Task, error) {
	f.lastPatch = patch
	t, ok := f.tasks[id]
	if !ok {
		return nil, &client.Error{Op: "update todo", StatusCode: 404}
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	cp := *t
	return &cp, nil
}

func (f *fakeAPI) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return &client.Error{Op: "delete todo", StatusCode: 404}
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeAPI) UpdateTodoPositions(ctx context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	f.lastUpdates = updates
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	out := make([]*entities.Task, 0, len(updates))
	for _, u := range updates {
		t := f.tasks[u.ID]
		t.Position = u.Position
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	out := make([]*entities.Category, 0, len(f.categories))
	for _, c := range f.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAPI) CreateCategory(ctx context.Context, in client.CategoryInput) (*entities.Category, error) {
	c := &entities.Category{ID: uuid.New(), Name: in.Name, Color: in.Color}
	f.categories[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeAPI) UpdateCategory(ctx context.Context, id uuid.UUID, in client.CategoryInput) (*entities.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, &client.Error{Op: "update category", StatusCode: 404}
	}
	c.Name, c.Color = in.Name, in.Color
	cp := *c
	return &cp, nil
}

func (f *fakeAPI) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return &client.Error{Op: "delete category", StatusCode: 404}
	}
	delete(f.categories, id)
	for _, t := range f.tasks {
		if t.InCategory(id) {
			t.DetachCategory()
		}
	}
	return nil
}
