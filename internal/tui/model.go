package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/board"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	insightsview "github.com/julianstephens/habitual/internal/tui/components/insights"
	"github.com/julianstephens/habitual/internal/tui/components/today"
	"github.com/julianstephens/habitual/internal/validation"
)

// tabs are the top-level views, in tab order
var tabs = []constants.SessionState{constants.StateHabits, constants.StateTasks, constants.StateInsights}

var tabTitles = map[constants.SessionState]string{
	constants.StateHabits:   "Habits",
	constants.StateTasks:    "Today",
	constants.StateInsights: "Insights",
}

type Model struct {
	tracker           *tracker.Tracker
	session           *session.Manager
	board             *board.Manager
	state             constants.SessionState
	keys              KeyMap
	help              help.Model
	habitsModel       habits.Model
	todayModel        today.Model
	insightsModel     insightsview.Model
	form              *huh.Form
	habitForm         *HabitFormModel
	taskForm          *TaskFormModel
	habitToDeleteID   string
	status            string // last action error, cleared on the next action
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(tr *tracker.Tracker, sess *session.Manager, b *board.Manager) Model {
	m := Model{
		tracker:       tr,
		session:       sess,
		board:         b,
		state:         constants.StateHabits,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		habitsModel:   habits.New(tr.List(), tr.Today(), 0, 0),
		todayModel:    today.New(b.Columns(), 0, 0),
		insightsModel: insightsview.New(0),
	}
	m.refresh()
	return m
}

// refresh reloads every view from the tracker and board.
func (m *Model) refresh() {
	list := m.tracker.List()
	day := m.tracker.Today()

	m.habitsModel.SetHabits(list, day)
	m.todayModel.SetColumns(m.board.Columns())
	summary, err := insights.Summarize(list, day)
	m.insightsModel.SetSummary(summary, m.session.Greeting(), err)

	result := validation.New().ValidateHabits(m.tracker.Stored(), day)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d data warning(s), run 'habitual validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
