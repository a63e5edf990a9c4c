package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StateTasks:
		content = docStyle.Render(m.todayModel.View())
	case constants.StateInsights:
		content = m.insightsModel.View()
	case constants.StateAddHabit, constants.StateAddTask:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, dangerStyle.Render(m.status))
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var rendered []string
	for _, s := range tabs {
		active := s == m.state ||
			(s == constants.StateHabits && (m.state == constants.StateAddHabit || m.state == constants.StateConfirmDelete)) ||
			(s == constants.StateTasks && m.state == constants.StateAddTask)
		if active {
			rendered = append(rendered, activeTabStyle.Render(tabTitles[s]))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tabTitles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, err := m.tracker.Get(m.habitToDeleteID); err == nil {
		name = h.Name
	}
	return lipgloss.Place(m.width, max(m.height-chromeHeight, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+name+"\" and all its history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
