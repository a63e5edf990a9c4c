package seed

import "testing"

func TestHabitsAreIndependentCopies(t *testing.T) {
	a := Habits()
	b := Habits()

	a[0].CompletedDates[0] = "changed"
	a[0].Reminder.Time = "00:00"

	if b[0].CompletedDates[0] != "2023-05-15" {
		t.Error("completion slices are shared between calls")
	}
	if b[0].Reminder.Time != "08:00" {
		t.Error("reminders are shared between calls")
	}
}

func TestHabitsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, h := range Habits() {
		if seen[h.ID] {
			t.Errorf("duplicate seed id %q", h.ID)
		}
		seen[h.ID] = true
	}
	if len(seen) != 3 {
		t.Errorf("seed size = %d, want 3", len(seen))
	}
}
