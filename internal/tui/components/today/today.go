package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

type AddTaskMsg struct {
	ColumnID string
}

type AddColumnMsg struct{}

type DeleteTaskMsg struct {
	ID string
}

type DeleteColumnMsg struct {
	ID string
}

type MoveTaskMsg struct {
	ID       string
	ColumnID string
}

// ColumnItem heads each column in the list.
type ColumnItem struct {
	Column models.Column
}

func (i ColumnItem) Title() string {
	return fmt.Sprintf("▸ %s (%d)", i.Column.Title, len(i.Column.Tasks))
}
func (i ColumnItem) Description() string {
	if len(i.Column.Tasks) == 0 {
		return "No tasks"
	}
	return "List"
}
func (i ColumnItem) FilterValue() string { return i.Column.Title }

type TaskItem struct {
	Task   models.Task
	Column models.Column
}

func (i TaskItem) Title() string { return "  • " + i.Task.Title }
func (i TaskItem) Description() string {
	if i.Task.Description != "" {
		return "    " + i.Task.Description
	}
	return "    " + i.Column.Title
}
func (i TaskItem) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add       key.Binding
	AddColumn key.Binding
	Delete    key.Binding
	Move      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		AddColumn: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new list"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move right"),
		),
	}
}

type Model struct {
	list    list.Model
	keys    KeyMap
	columns []models.Column
}

func New(columns []models.Column, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.AddColumn, keys.Delete, keys.Move}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.AddColumn, keys.Delete, keys.Move}
	}

	m := Model{list: l, keys: keys}
	m.SetColumns(columns)
	return m
}

// SetColumns replaces the board, one header item per column followed by its tasks.
func (m *Model) SetColumns(columns []models.Column) {
	m.columns = columns
	var items []list.Item
	for _, c := range columns {
		items = append(items, ColumnItem{Column: c})
		for _, t := range c.Tasks {
			items = append(items, TaskItem{Task: t, Column: c})
		}
	}
	m.list.SetItems(items)
}

// Filtering reports whether the list's filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// selectedColumn is the column under the cursor, or the first column.
func (m Model) selectedColumn() string {
	switch i := m.list.SelectedItem().(type) {
	case ColumnItem:
		return i.Column.ID
	case TaskItem:
		return i.Column.ID
	}
	if len(m.columns) > 0 {
		return m.columns[0].ID
	}
	return ""
}

// nextColumn is the column after id, wrapping to the first.
func (m Model) nextColumn(id string) string {
	for i, c := range m.columns {
		if c.ID == id {
			return m.columns[(i+1)%len(m.columns)].ID
		}
	}
	return id
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			col := m.selectedColumn()
			return m, func() tea.Msg { return AddTaskMsg{ColumnID: col} }
		case key.Matches(msg, m.keys.AddColumn):
			return m, func() tea.Msg { return AddColumnMsg{} }
		case key.Matches(msg, m.keys.Delete):
			switch i := m.list.SelectedItem().(type) {
			case TaskItem:
				return m, func() tea.Msg { return DeleteTaskMsg{ID: i.Task.ID} }
			case ColumnItem:
				return m, func() tea.Msg { return DeleteColumnMsg{ID: i.Column.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Move):
			if i, ok := m.list.SelectedItem().(TaskItem); ok {
				next := m.nextColumn(i.Column.ID)
				return m, func() tea.Msg { return MoveTaskMsg{ID: i.Task.ID, ColumnID: next} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	total := 0
	for _, c := range m.columns {
		total += len(c.Tasks)
	}
	header := fmt.Sprintf("  %d list(s)  ·  %d task(s)", len(m.columns), total)
	return header + "\n\n" + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, max(height-2, 0))
}
