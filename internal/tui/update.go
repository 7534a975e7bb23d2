package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/board"
	"github.com/taskmaster/todos/internal/domain/entities"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.pending = false
		m.clamp()
		return m, nil

	case actionDoneMsg:
		m.pending = false
		if msg.err == nil && msg.closeForm {
			m.mode = modeBrowse
			m.formErr = ""
		}
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		// input is disabled until the in-flight action resolves
		if m.pending {
			return m, nil
		}

		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeTodoForm:
			return m.updateTodoForm(msg)
		case modeCategoryForm:
			return m.updateCategoryForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}

		if m.pane == paneCategories {
			return m.updateCategories(msg)
		}
		return m.updateTodos(msg)
	}

	return m, nil
}

func (m Model) updateTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.pane = paneCategories
	case "j", "down":
		m.cursor++
		m.clamp()
	case "k", "up":
		m.cursor--
		m.clamp()
	case "r":
		m.pending = true
		return m, m.load()
	case "esc":
		m.board.DismissNotice()

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.board.Filter().Search)
		cmd := m.search.Focus()
		return m, cmd
	case "c":
		f := m.board.Filter()
		f.CategoryID = nextCategory(m.board.Categories(), f.CategoryID)
		m.board.SetFilter(f)
		m.clamp()
	case "p":
		f := m.board.Filter()
		f.Priority = nextPriority(f.Priority)
		m.board.SetFilter(f)
		m.clamp()
	case "s":
		f := m.board.Filter()
		f.Status = f.Status.Next()
		m.board.SetFilter(f)
		m.clamp()
	case "R":
		m.board.ResetFilters()
		m.search.SetValue("")
		m.clamp()

	case "n":
		m.openTodoForm(nil)
		cmd := m.todoForm.inputs[fieldTitle].Focus()
		return m, cmd
	case "e":
		if task := m.selectedTask(); task != nil {
			m.openTodoForm(task)
			cmd := m.todoForm.inputs[fieldTitle].Focus()
			return m, cmd
		}
	case " ":
		if task := m.selectedTask(); task != nil {
			id := task.ID
			m.pending = true
			return m, m.run(false, func(ctx context.Context) error {
				_, err := m.board.ToggleCompleted(ctx, id)
				return err
			})
		}
	case "d":
		if task := m.selectedTask(); task != nil {
			m.target = deleteTarget{id: task.ID, name: task.Title}
			m.mode = modeConfirmDelete
		}
	case "K":
		return m.move(-1)
	case "J":
		return m.move(1)
	}
	return m, nil
}

// move shifts the selected task one slot within the visible list.
func (m Model) move(delta int) (tea.Model, tea.Cmd) {
	from, to := m.cursor, m.cursor+delta
	if to < 0 || to >= len(m.board.Visible()) {
		return m, nil
	}
	m.cursor = to
	m.pending = true
	return m, m.run(false, func(ctx context.Context) error {
		return m.board.Reorder(ctx, from, to)
	})
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.pane = paneTodos
	case "j", "down":
		m.catCursor++
		m.clamp()
	case "k", "up":
		m.catCursor--
		m.clamp()
	case "r":
		m.pending = true
		return m, m.load()
	case "esc":
		m.board.DismissNotice()
	case "n":
		m.openCategoryForm(nil)
		cmd := m.categoryForm.inputs[0].Focus()
		return m, cmd
	case "e":
		if c := m.selectedCategory(); c != nil {
			m.openCategoryForm(c)
			cmd := m.categoryForm.inputs[0].Focus()
			return m, cmd
		}
	case "d":
		if c := m.selectedCategory(); c != nil {
			m.target = deleteTarget{category: true, id: c.ID, name: c.Name}
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.mode = modeBrowse
		m.search.Blur()
		f := m.board.Filter()
		f.Search = ""
		m.board.SetFilter(f)
		m.clamp()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	f := m.board.Filter()
	f.Search = strings.TrimSpace(m.search.Value())
	m.board.SetFilter(f)
	m.clamp()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.target
		m.mode = modeBrowse
		m.pending = true
		return m, m.run(false, func(ctx context.Context) error {
			if target.category {
				return m.board.DeleteCategory(ctx, target.id)
			}
			return m.board.DeleteTodo(ctx, target.id)
		})
	case "n", "N", "esc", "q":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *Model) openTodoForm(task *entities.Task) {
	form := board.NewTodoForm()
	var id *uuid.UUID
	if task != nil {
		form = board.EditTodoForm(task)
		tid := task.ID
		id = &tid
	}

	due := ""
	if form.DueDate != nil {
		due = form.DueDate.Format(dueDateLayout)
	}

	m.todoForm = todoFormState{
		id: id,
		inputs: [3]textinput.Model{
			newInput("What needs doing?", form.Title),
			newInput("optional", form.Description),
			newInput(dueDateLayout, due),
		},
		priority: form.Priority,
		category: form.CategoryID,
	}
	m.formErr = ""
	m.mode = modeTodoForm
}

func (m *Model) openCategoryForm(c *entities.Category) {
	form := board.NewCategoryForm()
	var id *uuid.UUID
	if c != nil {
		form = board.EditCategoryForm(c)
		cid := c.ID
		id = &cid
	}

	m.categoryForm = categoryFormState{
		id: id,
		inputs: [2]textinput.Model{
			newInput("Name", form.Name),
			newInput(board.DefaultColor, form.Color),
		},
	}
	m.formErr = ""
	m.mode = modeCategoryForm
}

func (m Model) updateTodoForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.todoForm

	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.formErr = ""
		return m, nil
	case "enter":
		return m.submitTodo()
	case "tab", "down":
		cmd := m.focusTodoField((f.focus + 1) % todoFieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusTodoField((f.focus + todoFieldCount - 1) % todoFieldCount)
		return m, cmd
	}

	switch f.focus {
	case fieldPriority:
		switch msg.String() {
		case "left", "right", " ":
			f.priority = f.priority.Next()
		}
		return m, nil
	case fieldCategory:
		switch msg.String() {
		case "left", "right", " ":
			f.category = nextCategory(m.board.Categories(), f.category)
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusTodoField(field int) tea.Cmd {
	f := &m.todoForm
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	if field < len(f.inputs) {
		return f.inputs[field].Focus()
	}
	return nil
}

func (m Model) submitTodo() (tea.Model, tea.Cmd) {
	f := m.todoForm
	form := board.TodoForm{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Priority:    f.priority,
		CategoryID:  f.category,
	}

	if raw := strings.TrimSpace(f.inputs[fieldDueDate].Value()); raw != "" {
		due, err := time.ParseInLocation(dueDateLayout, raw, time.Local)
		if err != nil {
			m.formErr = "Due date must look like " + dueDateLayout
			return m, nil
		}
		form.DueDate = &due
	}

	if err := form.Validate(); err != nil {
		m.formErr = formMessage(err)
		return m, nil
	}

	m.formErr = ""
	m.pending = true
	id := f.id
	return m, m.run(true, func(ctx context.Context) error {
		var err error
		if id == nil {
			_, err = m.board.CreateTodo(ctx, form)
		} else {
			_, err = m.board.UpdateTodo(ctx, *id, form)
		}
		return err
	})
}

func (m Model) updateCategoryForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.categoryForm

	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.formErr = ""
		return m, nil
	case "enter":
		return m.submitCategory()
	case "tab", "shift+tab", "down", "up":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % len(f.inputs)
		cmd := f.inputs[f.focus].Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) submitCategory() (tea.Model, tea.Cmd) {
	f := m.categoryForm
	form := board.CategoryForm{
		Name:  f.inputs[0].Value(),
		Color: f.inputs[1].Value(),
	}
	if err := form.Validate(); err != nil {
		m.formErr = formMessage(err)
		return m, nil
	}

	m.formErr = ""
	m.pending = true
	id := f.id
	return m, m.run(true, func(ctx context.Context) error {
		var err error
		if id == nil {
			_, err = m.board.CreateCategory(ctx, form)
		} else {
			_, err = m.board.UpdateCategory(ctx, *id, form)
		}
		return err
	})
}

func formMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), board.ErrInvalidForm.Error()+": ")
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// nextCategory cycles none -> first -> ... -> last -> none.
func nextCategory(categories []*entities.Category, current *uuid.UUID) *uuid.UUID {
	if len(categories) == 0 {
		return nil
	}
	if current == nil {
		id := categories[0].ID
		return &id
	}
	for i, c := range categories {
		if c.ID == *current && i+1 < len(categories) {
			id := categories[i+1].ID
			return &id
		}
	}
	return nil
}

// nextPriority cycles any -> LOW -> MEDIUM -> HIGH -> any.
func nextPriority(p entities.Priority) entities.Priority {
	if p == "" {
		return entities.Priorities[0]
	}
	for i, candidate := range entities.Priorities {
		if candidate == p && i+1 < len(entities.Priorities) {
			return entities.Priorities[i+1]
		}
	}
	return ""
}
