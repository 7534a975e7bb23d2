package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskmaster/todos/internal/board"
	"github.com/taskmaster/todos/internal/domain/entities"
)

// View renders the board
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case modeTodoForm:
		b.WriteString(m.renderTodoForm())
	case modeCategoryForm:
		b.WriteString(m.renderCategoryForm())
	default:
		if m.pane == paneCategories {
			b.WriteString(m.renderCategories())
		} else {
			b.WriteString(m.renderFilters())
			b.WriteString("\n\n")
			b.WriteString(m.renderTodos())
		}
	}

	if m.mode == modeConfirmDelete {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("Delete %q? [y/n]", m.target.name)))
		if m.target.category {
			b.WriteString(dimStyle.Render("  its todos will be kept without a category"))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(m.renderFooter())

	return containerStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	visible := len(m.board.Visible())
	total := len(m.board.Tasks())

	header := headerStyle.Render("Todos")
	if m.pane == paneCategories {
		header += "  " + sectionStyle.Render("Categories")
	} else {
		header += "  " + dimStyle.Render(fmt.Sprintf("%d of %d shown", visible, total))
	}
	return header
}

func (m Model) renderFilters() string {
	f := m.board.Filter()

	search := dimStyle.Render("any")
	if m.mode == modeSearch {
		search = m.search.View()
	} else if f.Search != "" {
		search = activeFilterStyle.Render(f.Search)
	}

	category := dimStyle.Render("any")
	if f.CategoryID != nil {
		if c := m.board.Category(*f.CategoryID); c != nil {
			category = swatch(c.Color) + " " + activeFilterStyle.Render(c.Name)
		}
	}

	priority := dimStyle.Render("any")
	if f.Priority != "" {
		priority = activeFilterStyle.Render(f.Priority.String())
	}

	status := dimStyle.Render(string(board.StatusAll))
	if f.Status != "" && f.Status != board.StatusAll {
		status = activeFilterStyle.Render(string(f.Status))
	}

	line := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("Search:"), search,
		labelStyle.Render("Category:"), category,
		labelStyle.Render("Priority:"), priority,
		labelStyle.Render("Status:"), status,
	)
	if f.Active() {
		line += "  " + dimStyle.Render("[R] reset")
	}
	return line
}

func (m Model) renderTodos() string {
	visible := m.board.Visible()
	if len(visible) == 0 {
		if m.board.FiltersActive() {
			return dimStyle.Render("No todos match the current filters.")
		}
		return dimStyle.Render("No todos yet. Press n to add one.")
	}

	now := time.Now()
	var b strings.Builder
	for i, t := range visible {
		b.WriteString(m.renderTodo(t, i == m.cursor, now))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTodo(t *entities.Task, selected bool, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	title := t.Title
	if t.Completed {
		title = doneStyle.Render(title)
	}

	parts := []string{check, title, priorityBadge(t.Priority)}

	if t.Category != nil {
		parts = append(parts, swatch(t.Category.Color)+" "+dimStyle.Render(t.Category.Name))
	}

	if t.DueDate != nil {
		due := "due " + t.DueDate.Format(dueDateLayout)
		if t.IsOverdue(now) {
			due = errorStyle.Render(due)
		} else {
			due = dimStyle.Render(due)
		}
		parts = append(parts, due)
	}

	row := strings.Join(parts, "  ")
	if selected {
		return selectedStyle.Render("▸") + " " + row
	}
	return "  " + row
}

func priorityBadge(p entities.Priority) string {
	switch p {
	case entities.PriorityHigh:
		return errorStyle.Render("HIGH")
	case entities.PriorityLow:
		return dimStyle.Render("LOW")
	default:
		return warningStyle.Render("MEDIUM")
	}
}

func (m Model) renderCategories() string {
	categories := m.board.Categories()
	if len(categories) == 0 {
		return dimStyle.Render("No categories yet. Press n to add one.")
	}

	counts := make(map[string]int)
	for _, t := range m.board.Tasks() {
		if t.CategoryID != nil {
			counts[t.CategoryID.String()]++
		}
	}

	var b strings.Builder
	for i, c := range categories {
		row := fmt.Sprintf("%s %s  %s", swatch(c.Color), c.Name, dimStyle.Render(fmt.Sprintf("%s · %d todos", c.Color, counts[c.ID.String()])))
		if i == m.catCursor {
			b.WriteString(selectedStyle.Render("▸") + " " + row)
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTodoForm() string {
	f := m.todoForm
	heading := "New todo"
	if f.id != nil {
		heading = "Edit todo"
	}

	category := dimStyle.Render("none")
	if f.category != nil {
		if c := m.board.Category(*f.category); c != nil {
			category = swatch(c.Color) + " " + c.Name
		}
	}

	rows := []string{
		m.formRow(fieldTitle, "Title", f.inputs[fieldTitle].View()),
		m.formRow(fieldDescription, "Description", f.inputs[fieldDescription].View()),
		m.formRow(fieldDueDate, "Due date", f.inputs[fieldDueDate].View()),
		m.formRow(fieldPriority, "Priority", "‹ "+priorityBadge(f.priority)+" ›"),
		m.formRow(fieldCategory, "Category", "‹ "+category+" ›"),
	}
	return sectionStyle.Render(heading) + "\n\n" + strings.Join(rows, "\n") + m.renderFormError()
}

func (m Model) formRow(field int, label, value string) string {
	marker := "  "
	if m.todoForm.focus == field {
		marker = footerKeyStyle.Render("▸ ")
	}
	return marker + labelStyle.Render(fmt.Sprintf("%-12s", label)) + value
}

func (m Model) renderCategoryForm() string {
	f := m.categoryForm
	heading := "New category"
	if f.id != nil {
		heading = "Edit category"
	}

	labels := [2]string{"Name", "Color"}
	rows := make([]string, len(f.inputs))
	for i := range f.inputs {
		marker := "  "
		if f.focus == i {
			marker = footerKeyStyle.Render("▸ ")
		}
		rows[i] = marker + labelStyle.Render(fmt.Sprintf("%-12s", labels[i])) + f.inputs[i].View()
	}
	rows[1] += "  " + swatch(strings.TrimSpace(f.inputs[1].Value()))

	return sectionStyle.Render(heading) + "\n\n" + strings.Join(rows, "\n") + m.renderFormError()
}

func (m Model) renderFormError() string {
	if m.formErr == "" {
		return ""
	}
	return "\n\n" + errorStyle.Render(m.formErr)
}

func (m Model) renderStatus() string {
	if m.pending {
		return "\n" + warningStyle.Render("Saving…")
	}
	n, ok := m.board.Notice()
	if !ok {
		return ""
	}
	if n.Kind == board.NoticeError {
		return "\n" + errorStyle.Render("✗ "+n.Text)
	}
	return "\n" + successStyle.Render("✓ "+n.Text)
}

func (m Model) renderFooter() string {
	var keys [][2]string
	switch {
	case m.mode == modeSearch:
		keys = [][2]string{{"enter", "apply"}, {"esc", "clear"}}
	case m.mode == modeTodoForm:
		keys = [][2]string{{"tab", "next field"}, {"←/→", "change"}, {"enter", "save"}, {"esc", "cancel"}}
	case m.mode == modeCategoryForm:
		keys = [][2]string{{"tab", "next field"}, {"enter", "save"}, {"esc", "cancel"}}
	case m.mode == modeConfirmDelete:
		keys = [][2]string{{"y", "delete"}, {"n", "keep"}}
	case m.pane == paneCategories:
		keys = [][2]string{{"n", "new"}, {"e", "edit"}, {"d", "delete"}, {"tab", "todos"}, {"q", "quit"}}
	default:
		keys = [][2]string{
			{"n", "new"}, {"e", "edit"}, {"space", "done"}, {"d", "delete"}, {"K/J", "move"},
			{"/", "search"}, {"c/p/s", "filter"}, {"tab", "categories"}, {"q", "quit"},
		}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = footerKeyStyle.Render("["+k[0]+"]") + " " + k[1]
	}
	return footerStyle.Render("\n" + strings.Join(parts, "  "))
}
