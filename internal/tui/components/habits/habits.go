package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit    models.Habit
	IsMarked bool
}

func (i Item) Title() string {
	if i.IsMarked {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · %s · streak %d", i.Habit.Category, i.Habit.Frequency, i.Habit.Streak)
	if i.Habit.Frequency == models.FrequencyCustom && len(i.Habit.CustomDays) > 0 {
		desc = fmt.Sprintf("%s · %s (%s) · streak %d", i.Habit.Category, i.Habit.Frequency, i.Habit.CustomDays, i.Habit.Streak)
	}
	if i.Habit.Reminder != nil && i.Habit.Reminder.Enabled {
		desc += " · ⏰ " + i.Habit.Reminder.Time
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Category key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "next category"),
		),
	}
}

type Model struct {
	list     list.Model
	keys     KeyMap
	habits   []models.Habit
	today    string
	category string // empty means all
}

func New(habits []models.Habit, today string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Category}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Category}
	}

	m := Model{list: l, keys: keys}
	m.SetHabits(habits, today)
	return m
}

// SetHabits replaces the displayed habits, keeping the cursor and category filter.
func (m *Model) SetHabits(habits []models.Habit, today string) {
	m.habits = habits
	m.today = today

	if m.category != "" && len(insights.FilterByCategory(habits, m.category)) == 0 {
		m.category = ""
	}
	m.refresh()
}

func (m *Model) refresh() {
	visible := insights.FilterByCategory(m.habits, m.category)
	items := make([]list.Item, len(visible))
	for i, h := range visible {
		items[i] = Item{Habit: h, IsMarked: h.CompletedOn(m.today)}
	}
	m.list.SetItems(items)
}

// Category is the active filter, empty for all categories.
func (m Model) Category() string {
	return m.category
}

// nextCategory cycles all → each category in first-seen order → all.
func (m *Model) nextCategory() {
	cats := insights.Categories(m.habits)
	next := ""
	if m.category == "" {
		if len(cats) > 0 {
			next = cats[0]
		}
	} else {
		for i, c := range cats {
			if c == m.category && i+1 < len(cats) {
				next = cats[i+1]
			}
		}
	}
	m.category = next
	m.list.Select(0)
	m.refresh()
}

// Filtering reports whether the list's filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
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
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Category):
			m.nextCategory()
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	header := "  All categories"
	if m.category != "" {
		header = "  Category: " + m.category
	}
	done := insights.CompletedOn(m.habits, m.today)
	header += fmt.Sprintf("  ·  %d/%d done today", done, len(m.habits))
	return header + "\n\n" + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, max(height-2, 0))
}
