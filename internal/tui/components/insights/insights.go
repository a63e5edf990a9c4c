package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/insights"
)

const barWidth = 20

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	valueStyle = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Model struct {
	summary  insights.Summary
	greeting string
	err      error
	width    int
}

func New(width int) Model {
	return Model{width: width}
}

// SetSummary replaces the displayed statistics. A non-nil err is shown instead.
func (m *Model) SetSummary(summary insights.Summary, greeting string, err error) {
	m.summary = summary
	m.greeting = greeting
	m.err = err
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Insights unavailable: %v", m.err)
	}

	s := m.summary
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total completions", fmt.Sprint(s.TotalCompletions)),
		card("Longest streak", fmt.Sprint(s.LongestStreak)),
		card("Completion rate", fmt.Sprintf("%d%%", s.CompletionRate)),
		card("Today", fmt.Sprintf("%d/%d", s.CompletedToday, s.HabitCount)),
	)

	sections := []string{titleStyle.Render(m.greeting), cards}
	if s.MostConsistent != nil {
		sections = append(sections, fmt.Sprintf("Most consistent: %s (%d)", valueStyle.Render(s.MostConsistent.Name), s.MostConsistent.Streak))
	} else if s.HabitCount > 0 {
		sections = append(sections, "Most consistent: "+insights.NoStreakMessage)
	}
	sections = append(sections,
		"",
		titleStyle.Render("Weekly progress"),
		weekly(s),
		"",
		titleStyle.Render("Categories"),
		categories(s),
	)
	style := lipgloss.NewStyle().Padding(1, 2)
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// weekly scales bars to the habit count so a full day fills the bar.
func weekly(s insights.Summary) string {
	var lines []string
	for _, d := range s.Weekly {
		width := 0
		if s.HabitCount > 0 {
			width = d.Count * barWidth / s.HabitCount
		}
		width = min(width, barWidth)
		lines = append(lines, fmt.Sprintf("%s %s %d",
			labelStyle.Render(d.Weekday.String()[:3]),
			barStyle.Render(strings.Repeat("█", width))+strings.Repeat(" ", barWidth-width),
			d.Count))
	}
	return strings.Join(lines, "\n")
}

func categories(s insights.Summary) string {
	if len(s.Categories) == 0 {
		return labelStyle.Render("No habits yet.")
	}
	var lines []string
	for _, c := range s.Categories {
		pct := 0
		if s.HabitCount > 0 {
			pct = c.Count * 100 / s.HabitCount
		}
		lines = append(lines, fmt.Sprintf("%-14s %d (%d%%)", c.Category, c.Count, pct))
	}
	return strings.Join(lines, "\n")
}
