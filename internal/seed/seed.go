// Package seed holds the example collection written on first load.
package seed

import "github.com/julianstephens/habitual/internal/models"

// Habits returns a fresh copy of the example collection. Streak values are
// the ones originally shipped and get recomputed on load.
func Habits() []models.Habit {
	return []models.Habit{
		{
			ID:        "1",
			Name:      "Morning Meditation",
			Category:  "Health",
			Frequency: models.FrequencyDaily,
			Streak:    5,
			Notes:     "10 minutes of mindfulness",
			CreatedAt: "2023-05-15",
			CompletedDates: []string{
				"2023-05-15",
				"2023-05-16",
				"2023-05-17",
				"2023-05-18",
				"2023-05-19",
			},
			Reminder: &models.Reminder{Enabled: true, Time: "08:00"},
		},
		{
			ID:        "2",
			Name:      "Read a Book",
			Category:  "Personal",
			Frequency: models.FrequencyDaily,
			Streak:    3,
			Notes:     "30 minutes of reading",
			CreatedAt: "2023-05-10",
			CompletedDates: []string{
				"2023-05-17",
				"2023-05-18",
				"2023-05-19",
			},
			Reminder: &models.Reminder{Enabled: false},
		},
		{
			ID:        "3",
			Name:      "Weekly Planning",
			Category:  "Work",
			Frequency: models.FrequencyWeekly,
			Streak:    2,
			Notes:     "Plan tasks for the week",
			CreatedAt: "2023-04-30",
			CompletedDates: []string{
				"2023-05-07",
				"2023-05-14",
			},
			Reminder: &models.Reminder{Enabled: true, Time: "18:00"},
		},
	}
}
