// Package tui is the terminal front end for the todo board.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/board"
	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
)

type pane int

const (
	paneTodos pane = iota
	paneCategories
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeTodoForm
	modeCategoryForm
	modeConfirmDelete
)

// todo form focus order
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCategory
	todoFieldCount
)

const dueDateLayout = "2006-01-02"

type todoFormState struct {
	id       *uuid.UUID
	inputs   [3]textinput.Model
	priority entities.Priority
	category *uuid.UUID
	focus    int
}

type categoryFormState struct {
	id     *uuid.UUID
	inputs [2]textinput.Model
	focus  int
}

type deleteTarget struct {
	category bool
	id       uuid.UUID
	name     string
}

// Model is the bubbletea model over a board.
type Model struct {
	ctx    context.Context
	board  *board.Board
	logger *logger.Logger

	pane      pane
	mode      mode
	cursor    int
	catCursor int
	pending   bool
	quitting  bool
	width     int

	search       textinput.Model
	todoForm     todoFormState
	categoryForm categoryFormState
	formErr      string
	target       deleteTarget
}

// Message types
type loadedMsg struct{ err error }

type actionDoneMsg struct {
	err       error
	closeForm bool
}

// NewModel creates a model; the board is loaded by Init.
func NewModel(ctx context.Context, b *board.Board, log *logger.Logger) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or description"

	return Model{
		ctx:    ctx,
		board:  b,
		logger: log.WithComponent("tui"),
		search: search,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, b *board.Board, log *logger.Logger) error {
	program := tea.NewProgram(NewModel(ctx, b, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.board.Load(m.ctx)}
	}
}

// run executes a board action off the render loop.
func (m Model) run(closeForm bool, action func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: action(m.ctx), closeForm: closeForm}
	}
}

func (m Model) selectedTask() *entities.Task {
	visible := m.board.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

func (m Model) selectedCategory() *entities.Category {
	categories := m.board.Categories()
	if m.catCursor < 0 || m.catCursor >= len(categories) {
		return nil
	}
	return categories[m.catCursor]
}

func (m *Model) clamp() {
	m.cursor = clampIndex(m.cursor, len(m.board.Visible()))
	m.catCursor = clampIndex(m.catCursor, len(m.board.Categories()))
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}
