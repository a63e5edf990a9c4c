// Package insights derives dashboard statistics from a habit collection.
// Functions take the reference day explicitly and never read the clock.
package insights

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// DayCount is one bar of the weekly series
type DayCount struct {
	Day     string       `json:"day"`
	Weekday time.Weekday `json:"weekday"`
	Count   int          `json:"count"`
}

// CategoryCount is one slice of the category distribution
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary bundles the statistics shown on the dashboard
// NoStreakMessage stands in for the most consistent habit when every streak is 0.
const NoStreakMessage = "Start building your streak today"

type Summary struct {
	ReferenceDay     string          `json:"referenceDay"`
	HabitCount       int             `json:"habitCount"`
	TotalCompletions int             `json:"totalCompletions"`
	LongestStreak    int             `json:"longestStreak"`
	CompletionRate   int             `json:"completionRate"`
	CompletedToday   int             `json:"completedToday"`
	TodayRatio       float64         `json:"todayRatio"`
	MostConsistent   *models.Habit   `json:"mostConsistent,omitempty"`
	Weekly           []DayCount      `json:"weekly"`
	Categories       []CategoryCount `json:"categories"`
}

// TotalCompletions is the number of completion days across all habits.
func TotalCompletions(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		total += len(h.CompletedDates)
	}
	return total
}

// LongestStreak is the highest cached streak, 0 for an empty collection.
func LongestStreak(habits []models.Habit) int {
	longest := 0
	for _, h := range habits {
		if h.Streak > longest {
			longest = h.Streak
		}
	}
	return longest
}

// MostConsistent returns the first habit holding the highest streak. It
// reports false when no habit has a running streak.
func MostConsistent(habits []models.Habit) (models.Habit, bool) {
	var best models.Habit
	for _, h := range habits {
		if h.Streak > best.Streak {
			best = h
		}
	}
	return best, best.Streak > 0
}

// CompletionRate is the whole-number percentage of completions over the
// days each habit has existed up to and including ref. A habit created
// after ref contributes no possible days.
func CompletionRate(habits []models.Habit, ref string) (int, error) {
	possible := 0
	for _, h := range habits {
		days, err := utils.DaysBetween(h.CreatedAt, ref)
		if err != nil {
			return 0, err
		}
		if days >= 0 {
			possible += days + 1
		}
	}
	if possible == 0 {
		return 0, nil
	}
	rate := float64(TotalCompletions(habits)) / float64(possible) * 100
	return int(math.Round(rate)), nil
}

// WeeklySeries counts completed habits for each of the seven days ending at
// ref, oldest first.
func WeeklySeries(habits []models.Habit, ref string) ([]DayCount, error) {
	series := make([]DayCount, constants.WeeklyWindowDays)
	index := make(map[string]int, constants.WeeklyWindowDays)
	for i := range series {
		day, err := utils.AddDays(ref, i-(constants.WeeklyWindowDays-1))
		if err != nil {
			return nil, err
		}
		wd, _ := utils.Weekday(day)
		series[i] = DayCount{Day: day, Weekday: wd}
		index[day] = i
	}

	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if i, ok := index[d]; ok {
				series[i].Count++
			}
		}
	}
	return series, nil
}

// CategoryDistribution counts habits per category in first-seen order.
func CategoryDistribution(habits []models.Habit) []CategoryCount {
	out := []CategoryCount{}
	index := make(map[string]int)
	for _, h := range habits {
		i, ok := index[h.Category]
		if !ok {
			i = len(out)
			index[h.Category] = i
			out = append(out, CategoryCount{Category: h.Category})
		}
		out[i].Count++
	}
	return out
}

// CompletedOn counts the habits completed on day.
func CompletedOn(habits []models.Habit, day string) int {
	n := 0
	for _, h := range habits {
		if h.CompletedOn(day) {
			n++
		}
	}
	return n
}

// TodayCompletionRatio is the fraction of habits completed on ref.
func TodayCompletionRatio(habits []models.Habit, ref string) float64 {
	if len(habits) == 0 {
		return 0
	}
	return float64(CompletedOn(habits, ref)) / float64(len(habits))
}

// Categories lists the distinct categories in first-seen order.
func Categories(habits []models.Habit) []string {
	dist := CategoryDistribution(habits)
	out := make([]string, len(dist))
	for i, c := range dist {
		out[i] = c.Category
	}
	return out
}

// FilterByCategory keeps habits whose category matches case-insensitively.
// An empty category or "all" keeps everything.
func FilterByCategory(habits []models.Habit, category string) []models.Habit {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return habits
	}
	var out []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Category, category) {
			out = append(out, h)
		}
	}
	return out
}

// Summarize computes every dashboard statistic for ref.
func Summarize(habits []models.Habit, ref string) (Summary, error) {
	rate, err := CompletionRate(habits, ref)
	if err != nil {
		return Summary{}, err
	}
	weekly, err := WeeklySeries(habits, ref)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		ReferenceDay:     ref,
		HabitCount:       len(habits),
		TotalCompletions: TotalCompletions(habits),
		LongestStreak:    LongestStreak(habits),
		CompletionRate:   rate,
		CompletedToday:   CompletedOn(habits, ref),
		TodayRatio:       TodayCompletionRatio(habits, ref),
		Weekly:           weekly,
		Categories:       CategoryDistribution(habits),
	}
	if best, ok := MostConsistent(habits); ok {
		s.MostConsistent = &best
	}
	return s, nil
}
