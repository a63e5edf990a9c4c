// Package streak computes the derived streak value of a habit from its
// completion set. Every function here is pure: the same policy and dates
// always give the same result, whatever the wall clock says.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// Policy is the part of a habit the streak depends on.
type Policy struct {
	Frequency  models.Frequency
	CustomDays models.Weekdays
}

// PolicyFor extracts the streak policy of h.
func PolicyFor(h models.Habit) Policy {
	return Policy{Frequency: h.Frequency, CustomDays: h.CustomDays}
}

// Compute returns the streak for the given completion days.
//
// Daily counts the run of consecutive days ending at the most recent
// completion. The most recent completion is not required to be today.
// Weekly is ceil(count/7), a proxy for weeks engaged rather than a
// consecutive-week check. Custom with designated days counts the run in
// which no designated day was skipped; without designated days it is Daily.
func Compute(p Policy, dates []string) (int, error) {
	days, err := normalize(dates)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	if p.Frequency == models.FrequencyWeekly {
		return (len(days) + constants.DaysPerWeek - 1) / constants.DaysPerWeek, nil
	}

	step := stepFor(p)
	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if !step(days[i-1], days[i]) {
			break
		}
		streak++
	}
	return streak, nil
}

// Longest returns the longest run anywhere in the completion set, using the
// same continuation rule as Compute. Weekly habits report the same value as Compute.
func Longest(p Policy, dates []string) (int, error) {
	days, err := normalize(dates)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}
	if p.Frequency == models.FrequencyWeekly {
		return Compute(p, dates)
	}

	step := stepFor(p)
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if step(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best, nil
}

// normalize parses, deduplicates and sorts the completion days.
func normalize(dates []string) ([]time.Time, error) {
	seen := make(map[string]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		t, err := utils.ParseDay(d)
		if err != nil {
			return nil, err
		}
		seen[d] = true
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// stepFor returns the rule deciding whether two adjacent completions
// (prev before next) belong to the same run.
func stepFor(p Policy) func(prev, next time.Time) bool {
	if p.Frequency == models.FrequencyCustom && len(p.CustomDays) > 0 {
		designated := p.CustomDays
		return func(prev, next time.Time) bool {
			// A gap of more than a week skips every weekday.
			if daysApart(prev, next) > constants.DaysPerWeek {
				return false
			}
			for d := prev.AddDate(0, 0, 1); d.Before(next); d = d.AddDate(0, 0, 1) {
				if designated.Contains(d.Weekday()) {
					return false
				}
			}
			return true
		}
	}
	return func(prev, next time.Time) bool {
		return daysApart(prev, next) == 1
	}
}

// daysApart counts calendar days between two UTC midnights.
func daysApart(prev, next time.Time) int64 {
	return (next.Unix() - prev.Unix()) / (24 * 60 * 60)
}
