package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Weekdays is a set of designated days of the week. It serializes as
// three-letter names ("Mon", "Wed") to stay readable in stored records.
type Weekdays []time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name or a number (0=Sunday, 6=Saturday)
func ParseWeekday(s string) (time.Weekday, error) {
	part := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := weekdayNames[part]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) (Weekdays, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days Weekdays
	for _, part := range strings.Split(s, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days.Normalize(), nil
}

// Normalize returns the set sorted Sunday first with duplicates removed.
func (w Weekdays) Normalize() Weekdays {
	if len(w) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether d is designated
func (w Weekdays) Contains(d time.Weekday) bool {
	for _, x := range w {
		if x == d {
			return true
		}
	}
	return false
}

func (w Weekdays) String() string {
	names := make([]string, len(w))
	for i, d := range w {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ",")
}

func (w Weekdays) MarshalJSON() ([]byte, error) {
	names := make([]string, len(w))
	for i, d := range w {
		names[i] = d.String()[:3]
	}
	return json.Marshal(names)
}

func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	days := make(Weekdays, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			var n int
			if err := json.Unmarshal(r, &n); err != nil {
				return fmt.Errorf("invalid weekday: %s", string(r))
			}
			s = strconv.Itoa(n)
		}
		wd, err := ParseWeekday(s)
		if err != nil {
			return err
		}
		days = append(days, wd)
	}
	*w = days.Normalize()
	return nil
}

// MarshalYAML writes the same names as the JSON form
func (w Weekdays) MarshalYAML() (interface{}, error) {
	names := make([]string, len(w))
	for i, d := range w {
		names[i] = d.String()[:3]
	}
	return names, nil
}

// UnmarshalYAML accepts names or numbers, like the JSON form
func (w *Weekdays) UnmarshalYAML(value *yaml.Node) error {
	var raw []string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	days := make(Weekdays, 0, len(raw))
	for _, s := range raw {
		wd, err := ParseWeekday(s)
		if err != nil {
			return err
		}
		days = append(days, wd)
	}
	*w = days.Normalize()
	return nil
}
