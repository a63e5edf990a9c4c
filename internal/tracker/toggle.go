package tracker

import (
	"sort"

	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

// Toggle flips completion of day for the habit with id and recomputes its
// streak. Any valid day is accepted, including future ones.
func (t *Tracker) Toggle(id, day string) (models.Habit, error) {
	if _, err := utils.ParseDay(day); err != nil {
		return models.Habit{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return models.Habit{}, ErrNotLoaded
	}
	return t.toggleLocked(id, day)
}

// ToggleToday toggles the tracker's reference day.
func (t *Tracker) ToggleToday(id string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return models.Habit{}, ErrNotLoaded
	}
	return t.toggleLocked(id, t.today())
}

func (t *Tracker) toggleLocked(id, day string) (models.Habit, error) {
	idx := t.indexLocked(id)
	if idx < 0 {
		return models.Habit{}, &herrors.NotFoundError{ID: id}
	}

	h := &t.habits[idx]
	dates, completed := toggleDate(h.CompletedDates, day)

	s, err := streak.Compute(streak.PolicyFor(*h), dates)
	if err != nil {
		return models.Habit{}, err
	}

	// Dates and streak change together under the write lock
	h.CompletedDates = dates
	h.Streak = s
	logger.Debug("Habit toggled", "id", id, "day", day, "completed", completed, "streak", s)

	return h.Clone(), t.persistLocked("toggle")
}

// toggleDate returns a new sorted set with day removed if present, or
// inserted otherwise, and whether day is now in the set.
func toggleDate(dates []string, day string) ([]string, bool) {
	i := sort.SearchStrings(dates, day)
	if i < len(dates) && dates[i] == day {
		out := make([]string, 0, len(dates)-1)
		out = append(out, dates[:i]...)
		out = append(out, dates[i+1:]...)
		return out, false
	}

	out := make([]string, 0, len(dates)+1)
	out = append(out, dates[:i]...)
	out = append(out, day)
	out = append(out, dates[i:]...)
	return out, true
}
