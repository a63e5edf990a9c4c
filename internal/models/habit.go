package models

import (
	"fmt"
	"strings"
)

// Frequency selects the streak policy of a habit
type Frequency string

const (
	FrequencyDaily  Frequency = "Daily"
	FrequencyWeekly Frequency = "Weekly"
	FrequencyCustom Frequency = "Custom"
)

// ParseFrequency accepts any casing of daily, weekly or custom.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "custom":
		return FrequencyCustom, nil
	default:
		return "", fmt.Errorf("invalid frequency: %q (expected daily, weekly or custom)", s)
	}
}

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// Reminder is display-only metadata; nothing is ever delivered.
type Reminder struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Time    string `json:"time,omitempty" yaml:"time,omitempty"` // HH:MM format
}

// Habit represents one trackable routine
type Habit struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Category       string    `json:"category" yaml:"category"`
	Frequency      Frequency `json:"frequency" yaml:"frequency"`
	CustomDays     Weekdays  `json:"customDays,omitempty" yaml:"customDays,omitempty"`
	Streak         int       `json:"streak" yaml:"streak"`
	Notes          string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Goal           *int      `json:"goal,omitempty" yaml:"goal,omitempty"`
	CreatedAt      string    `json:"createdAt" yaml:"createdAt"`           // YYYY-MM-DD format
	CompletedDates []string  `json:"completedDates" yaml:"completedDates"` // YYYY-MM-DD format, sorted, unique
	Reminder       *Reminder `json:"reminder,omitempty" yaml:"reminder,omitempty"`
}

// CompletedOn reports whether day is in the completion set.
func (h Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with h.
func (h Habit) Clone() Habit {
	c := h
	if h.CustomDays != nil {
		c.CustomDays = append(Weekdays(nil), h.CustomDays...)
	}
	c.CompletedDates = append([]string{}, h.CompletedDates...)
	if h.Goal != nil {
		g := *h.Goal
		c.Goal = &g
	}
	if h.Reminder != nil {
		r := *h.Reminder
		c.Reminder = &r
	}
	return c
}

// Draft is the payload for creating a habit. Identity, creation day,
// completions and streak are assigned by the tracker.
type Draft struct {
	Name       string
	Category   string
	Frequency  Frequency
	CustomDays Weekdays
	Notes      string
	Goal       *int
	Reminder   *Reminder
}

// Patch holds the fields to change on an existing habit. Nil fields are left as they are.
type Patch struct {
	Name           *string
	Category       *string
	Frequency      *Frequency
	CustomDays     *Weekdays
	Notes          *string
	Goal           *int
	ClearGoal      bool
	Reminder       *Reminder
	ClearReminder  bool
	CompletedDates *[]string
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Frequency == nil && p.CustomDays == nil &&
		p.Notes == nil && p.Goal == nil && !p.ClearGoal && p.Reminder == nil && !p.ClearReminder &&
		p.CompletedDates == nil
}
