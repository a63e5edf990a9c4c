package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekdays
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "mon,wed", want: Weekdays{time.Monday, time.Wednesday}},
		{in: "Friday, mon, FRI", want: Weekdays{time.Monday, time.Friday}},
		{in: "0,6", want: Weekdays{time.Sunday, time.Saturday}},
		{in: "mon,funday", wantErr: true},
		{in: "7", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseWeekdays(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestWeekdaysJSON(t *testing.T) {
	data, err := json.Marshal(Weekdays{time.Monday, time.Friday})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["Mon","Fri"]` {
		t.Errorf("Marshal = %s", data)
	}

	var w Weekdays
	if err := json.Unmarshal([]byte(`["Fri", 1, "mon"]`), &w); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Weekdays{time.Monday, time.Friday}, w); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`["someday"]`), &w); err == nil {
		t.Error("expected error for an unknown weekday")
	}
}

func TestWeekdaysYAML(t *testing.T) {
	data, err := yaml.Marshal(struct {
		Days Weekdays `yaml:"days"`
	}{Weekdays{time.Sunday, time.Wednesday}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "days:\n    - Sun\n    - Wed\n" {
		t.Errorf("Marshal = %q", data)
	}

	var doc struct {
		Days Weekdays `yaml:"days"`
	}
	if err := yaml.Unmarshal([]byte("days: [wed, 0]\n"), &doc); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Weekdays{time.Sunday, time.Wednesday}, doc.Days); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFrequency(t *testing.T) {
	for in, want := range map[string]Frequency{"daily": FrequencyDaily, " Weekly ": FrequencyWeekly, "CUSTOM": FrequencyCustom} {
		got, err := ParseFrequency(in)
		if err != nil || got != want {
			t.Errorf("ParseFrequency(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFrequency("monthly"); err == nil {
		t.Error("expected error for monthly")
	}
}

func TestHabitClone(t *testing.T) {
	goal := 5
	h := Habit{
		Name:           "Read",
		CustomDays:     Weekdays{time.Monday},
		CompletedDates: []string{"2024-01-01"},
		Goal:           &goal,
		Reminder:       &Reminder{Enabled: true, Time: "08:00"},
	}
	c := h.Clone()
	c.CustomDays[0] = time.Tuesday
	c.CompletedDates[0] = "2024-02-02"
	*c.Goal = 9
	c.Reminder.Time = "09:00"

	if h.CustomDays[0] != time.Monday || h.CompletedDates[0] != "2024-01-01" || *h.Goal != 5 || h.Reminder.Time != "08:00" {
		t.Errorf("Clone shares state with the original: %+v", h)
	}
	if !h.CompletedOn("2024-01-01") || h.CompletedOn("2024-01-02") {
		t.Error("CompletedOn mismatch")
	}
}
