package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/ports"
)

// fakeStore keeps tasks and categories in memory with the same semantics as
// the Postgres repositories.
type fakeStore struct {
	mu sync.RWMutex

	tasks      map[uuid.UUID]entities.Task
	categories map[uuid.UUID]entities.Category
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:      make(map[uuid.UUID]entities.Task),
		categories: make(map[uuid.UUID]entities.Category),
	}
}

func (s *fakeStore) taskRepo() *fakeTaskRepo         { return &fakeTaskRepo{s} }
func (s *fakeStore) categoryRepo() *fakeCategoryRepo { return &fakeCategoryRepo{s} }

// hydrate must be called with the lock held.
func (s *fakeStore) hydrate(t entities.Task) *entities.Task {
	out := t
	out.Category = nil
	if t.CategoryID != nil {
		id := *t.CategoryID
		out.CategoryID = &id
		if c, ok := s.categories[id]; ok {
			out.Category = &c
		}
	}
	return &out
}

func (s *fakeStore) sorted(keep func(entities.Task) bool) []*entities.Task {
	out := make([]*entities.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, s.hydrate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type fakeTaskRepo struct{ s *fakeStore }

func (r *fakeTaskRepo) List(context.Context) ([]*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sorted(func(entities.Task) bool { return true }), nil
}

func (r *fakeTaskRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sorted(func(t entities.Task) bool { return t.InCategory(categoryID) }), nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return r.s.hydrate(t), nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.Task) (*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.CategoryID != nil {
		if _, ok := r.s.categories[*task.CategoryID]; !ok {
			return nil, entities.ErrCategoryNotFound
		}
	}

	next := 0
	for _, t := range r.s.tasks {
		if t.Position >= next {
			next = t.Position + 1
		}
	}

	stored := *task
	stored.ID = uuid.New()
	stored.Position = next
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored.Category = nil
	r.s.tasks[stored.ID] = stored

	return r.s.hydrate(stored), nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *entities.Task) (*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}

	stored := *task
	stored.Position = existing.Position
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	stored.Category = nil
	r.s.tasks[stored.ID] = stored

	return r.s.hydrate(stored), nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *fakeTaskRepo) UpdatePositions(_ context.Context, updates []ports.PositionUpdate) ([]*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range updates {
		if _, ok := r.s.tasks[u.ID]; !ok {
			return nil, entities.ErrTaskNotFound
		}
	}

	out := make([]*entities.Task, 0, len(updates))
	for _, u := range updates {
		t := r.s.tasks[u.ID]
		t.Position = u.Position
		r.s.tasks[u.ID] = t
		out = append(out, r.s.hydrate(t))
	}
	return out, nil
}

type fakeCategoryRepo struct{ s *fakeStore }

func (r *fakeCategoryRepo) List(context.Context) ([]*entities.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, entities.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entities.Category) (*entities.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *category
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.categories[stored.ID] = stored
	return &stored, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entities.Category) (*entities.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return nil, entities.ErrCategoryNotFound
	}
	stored := *category
	stored.UpdatedAt = time.Now()
	r.s.categories[stored.ID] = stored
	return &stored, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return 0, entities.ErrCategoryNotFound
	}

	var detached int64
	for tid, t := range r.s.tasks {
		if t.InCategory(id) {
			t.CategoryID = nil
			r.s.tasks[tid] = t
			detached++
		}
	}
	delete(r.s.categories, id)
	return detached, nil
}
