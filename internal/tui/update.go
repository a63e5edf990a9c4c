package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/today"
)

// chromeHeight is the space taken by tabs, status and help
const chromeHeight = 5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.habitsModel.SetSize(size.Width-4, size.Height-chromeHeight)
		m.todayModel.SetSize(size.Width-4, size.Height-chromeHeight)
		m.insightsModel.SetWidth(size.Width)
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateAddTask:
		return m.updateAddTask(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == constants.StateHabits && m.habitsModel.Filtering() ||
			m.state == constants.StateTasks && m.todayModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = m.nextTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = m.nextTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habits.AddHabitMsg:
		m.status = ""
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.ToggleHabitMsg:
		m.status = ""
		if _, err := m.tracker.ToggleToday(msg.ID); err != nil {
			m.fail("Failed to toggle habit", err)
		}
		m.refresh()
		return m, nil

	case habits.DeleteHabitMsg:
		m.status = ""
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case today.AddTaskMsg:
		m.status = ""
		m.taskForm = &TaskFormModel{ColumnID: msg.ColumnID, Columns: m.board.Columns()}
		m.form = NewTaskForm(m.taskForm)
		m.state = constants.StateAddTask
		return m, m.form.Init()

	case today.AddColumnMsg:
		m.status = ""
		m.taskForm = &TaskFormModel{}
		m.form = NewTaskForm(m.taskForm)
		m.state = constants.StateAddTask
		return m, m.form.Init()

	case today.DeleteTaskMsg:
		m.status = ""
		if _, err := m.board.DeleteTask(msg.ID); err != nil {
			m.fail("Failed to delete task", err)
		}
		m.refresh()
		return m, nil

	case today.DeleteColumnMsg:
		m.status = ""
		if _, err := m.board.DeleteColumn(msg.ID); err != nil {
			m.fail("Failed to delete list", err)
		}
		m.refresh()
		return m, nil

	case today.MoveTaskMsg:
		m.status = ""
		if _, _, err := m.board.MoveTask(msg.ID, msg.ColumnID); err != nil {
			m.fail("Failed to move task", err)
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateTasks:
		m.todayModel, cmd = m.todayModel.Update(msg)
	}
	return m, cmd
}

func (m Model) nextTab(step int) constants.SessionState {
	for i, s := range tabs {
		if s == m.state {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}
	return tabs[0]
}

// updateAddHabit drives the huh form until it completes or is aborted.
func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if _, err := m.tracker.Create(m.habitForm.Draft()); err != nil {
			m.fail("Failed to add habit", err)
		}
		m.refresh()
		m.state = constants.StateHabits
		return m, nil
	case huh.StateAborted:
		m.state = constants.StateHabits
		return m, nil
	}
	return m, cmd
}

// updateAddTask drives the add-task or add-list form.
func (m Model) updateAddTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateTasks
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.taskForm.AddsColumn() {
			_, err = m.board.AddColumn(m.taskForm.Title)
		} else {
			_, _, err = m.board.AddTask(m.taskForm.ColumnID, m.taskForm.Title)
		}
		if err != nil {
			m.fail("Failed to save board", err)
		}
		m.refresh()
		m.state = constants.StateTasks
		return m, nil
	case huh.StateAborted:
		m.state = constants.StateTasks
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.tracker.Delete(m.habitToDeleteID); err != nil {
			m.fail("Failed to delete habit", err)
		}
		m.refresh()
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	}
	return m, nil
}

// fail records err for the status line. The tracker and board keep in-memory
// changes even when saving fails, so the views are still refreshed.
func (m *Model) fail(action string, err error) {
	logger.Warn(action, "error", err)
	m.status = action + ": " + err.Error()
}
