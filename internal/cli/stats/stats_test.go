package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

// seedDay is the last day with sample completions
const seedDay = "2023-05-19"

func setupSeeded(t *testing.T, opts ...tracker.Option) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	base := []tracker.Option{tracker.WithToday(func() string { return seedDay })}
	ctx := cli.NewContext(store, append(base, opts...)...)
	out := &bytes.Buffer{}
	ctx.Out = out
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	return ctx, out
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupSeeded(t)

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Hey there, let's crush it today!",
		"Habits:            3",
		"Done on 2023-05-19: 2/3",
		"Total completions: 10",
		"Longest streak:    5",
		"Completion rate:   29%",
		"Most consistent:   Morning Meditation (5)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestStatsCmd_GreetsSignedInUser(t *testing.T) {
	ctx, out := setupSeeded(t)
	if _, err := ctx.Session.Login("Sam", "sam@example.com"); err != nil {
		t.Fatal(err)
	}

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "Hey Sam, let's crush it today!") {
		t.Errorf("unexpected greeting:\n%s", out.String())
	}
}

func TestStatsCmd_JSON(t *testing.T) {
	ctx, out := setupSeeded(t)

	if err := (&StatsCmd{Date: "2023-05-18", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var summary insights.Summary
	if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if summary.ReferenceDay != "2023-05-18" {
		t.Errorf("ReferenceDay = %q, want 2023-05-18", summary.ReferenceDay)
	}
	if summary.CompletedToday != 2 {
		t.Errorf("CompletedToday = %d, want 2", summary.CompletedToday)
	}
}

func TestStatsCmd_Empty(t *testing.T) {
	ctx, out := setupSeeded(t, tracker.WithoutSeed())

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Total completions: 0", "Longest streak:    0", "Completion rate:   0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Most consistent") {
		t.Errorf("empty collection reported a most consistent habit:\n%s", got)
	}
}

func TestStatsCmd_NoRunningStreak(t *testing.T) {
	ctx, out := setupSeeded(t, tracker.WithoutSeed())
	if _, err := ctx.Tracker.Create(models.Draft{Name: "Stretch", Category: "Health"}); err != nil {
		t.Fatal(err)
	}

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Most consistent:   Start building your streak today") {
		t.Errorf("output missing streak prompt:\n%s", got)
	}
	if strings.Contains(got, "Stretch (0)") {
		t.Errorf("habit with no streak reported as most consistent:\n%s", got)
	}
}

func TestStatsCmd_InvalidDate(t *testing.T) {
	ctx, _ := setupSeeded(t)

	err := (&StatsCmd{Date: "2023-13-01"}).Run(ctx)
	if !herrors.IsInvalidDate(err) {
		t.Errorf("Run() error = %v, want InvalidDateError", err)
	}
}

func TestWeekCmd(t *testing.T) {
	ctx, out := setupSeeded(t)

	if err := (&WeekCmd{}).Run(ctx); err != nil {
		t.Fatalf("week failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want heading plus 7 days:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "Sat 2023-05-13") {
		t.Errorf("first day = %q, want Sat 2023-05-13", lines[1])
	}
	wantCounts := []string{"0", "1", "1", "1", "2", "2", "2"}
	for i, want := range wantCounts {
		fields := strings.Fields(lines[i+1])
		if got := fields[len(fields)-1]; got != want {
			t.Errorf("day %d count = %s, want %s", i, got, want)
		}
	}
}

func TestMonthCmd(t *testing.T) {
	ctx, out := setupSeeded(t)
	goal := 4
	h, err := ctx.Tracker.Find("Morning Meditation")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Tracker.Update(h.ID, models.Patch{Goal: &goal}); err != nil {
		t.Fatal(err)
	}

	if err := (&MonthCmd{}).Run(ctx); err != nil {
		t.Fatalf("month failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Monthly tracker 2023-05") {
		t.Errorf("missing heading:\n%s", got)
	}
	grid := strings.Repeat(".", 14) + strings.Repeat("#", 5) + strings.Repeat(".", 12)
	if !strings.Contains(got, "Morning Meditation  "+grid+"  5/4 ✓") {
		t.Errorf("missing meditation row:\n%s", got)
	}
}

func TestMonthCmd_InvalidMonth(t *testing.T) {
	ctx, _ := setupSeeded(t)

	err := (&MonthCmd{Month: "2023-5"}).Run(ctx)
	if !herrors.IsInvalidDate(err) {
		t.Errorf("Run() error = %v, want InvalidDateError", err)
	}
}

func TestCategoriesCmd(t *testing.T) {
	ctx, out := setupSeeded(t)

	if err := (&CategoriesCmd{}).Run(ctx); err != nil {
		t.Fatalf("categories failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Health", "Personal", "Work", "1 (33%)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDayRuler(t *testing.T) {
	if got, want := dayRuler(12), "    +    1  "; got != want {
		t.Errorf("dayRuler(12) = %q, want %q", got, want)
	}
}
