package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/insights"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

// flakyStore fails every Put while fail is set.
type flakyStore struct {
	*storage.MemoryStore
	fail bool
	puts int
}

func (s *flakyStore) Put(key string, value []byte) error {
	s.puts++
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Put(key, value)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, *flakyStore) {
	t.Helper()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	base := []Option{
		WithToday(func() string { return "2024-01-10" }),
		WithIDGenerator(sequentialIDs()),
		WithoutSeed(),
	}
	tr := New(store, append(base, opts...)...)
	if err := tr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return tr, store
}

func mustCreate(t *testing.T, tr *Tracker, name string, freq models.Frequency) models.Habit {
	t.Helper()
	h, err := tr.Create(models.Draft{Name: name, Category: "Health", Frequency: freq})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return h
}

func TestCreate(t *testing.T) {
	tr, store := newTestTracker(t)

	goal := 5
	h, err := tr.Create(models.Draft{
		Name:     "  Read  ",
		Category: "Personal",
		Notes:    "before bed",
		Goal:     &goal,
		Reminder: &models.Reminder{Enabled: true, Time: "21:00"},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	want := models.Habit{
		ID:             "id-1",
		Name:           "Read",
		Category:       "Personal",
		Frequency:      models.FrequencyDaily,
		Notes:          "before bed",
		Goal:           &goal,
		CreatedAt:      "2024-01-10",
		CompletedDates: []string{},
		Reminder:       &models.Reminder{Enabled: true, Time: "21:00"},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("Create() mismatch (-want +got):\n%s", diff)
	}

	// Caller's goal pointer is not retained
	goal = 99
	got, _ := tr.Get(h.ID)
	if *got.Goal != 5 {
		t.Errorf("stored goal = %d, want 5", *got.Goal)
	}

	data, err := store.Get(constants.KeyHabits)
	if err != nil {
		t.Fatalf("habits not persisted: %v", err)
	}
	var persisted []models.Habit
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 1 || persisted[0].ID != "id-1" {
		t.Errorf("persisted = %+v", persisted)
	}
}

func TestCreateValidation(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, err := tr.Create(models.Draft{Name: "", Category: "Health"})
	if !herrors.IsValidation(err) {
		t.Errorf("Create() with empty name error = %v, want ValidationError", err)
	}
	if len(tr.List()) != 0 {
		t.Error("invalid draft was added")
	}
}

func TestCreateAppendsInOrder(t *testing.T) {
	tr, _ := newTestTracker(t)
	for _, name := range []string{"A", "B", "C"} {
		mustCreate(t, tr, name, models.FrequencyDaily)
	}

	var names []string
	for _, h := range tr.List() {
		names = append(names, h.Name)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, names); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}

func TestListIsDeepCopy(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := mustCreate(t, tr, "A", models.FrequencyDaily)
	if _, err := tr.Toggle(h.ID, "2024-01-01"); err != nil {
		t.Fatal(err)
	}

	list := tr.List()
	list[0].Name = "mutated"
	list[0].CompletedDates[0] = "1999-01-01"

	got, _ := tr.Get(h.ID)
	if got.Name != "A" || got.CompletedDates[0] != "2024-01-01" {
		t.Errorf("List() result aliases tracker state: %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := mustCreate(t, tr, "Run", models.FrequencyDaily)
	for _, d := range []string{"2024-01-01", "2024-01-02"} {
		if _, err := tr.Toggle(h.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	name := "Morning Run"
	notes := "5k"
	updated, err := tr.Update(h.ID, models.Patch{Name: &name, Notes: &notes})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if updated.Name != name || updated.Notes != notes {
		t.Errorf("Update() did not apply fields: %+v", updated)
	}
	if diff := cmp.Diff([]string{"2024-01-01", "2024-01-02"}, updated.CompletedDates); diff != "" {
		t.Errorf("Update() touched completions (-want +got):\n%s", diff)
	}
	if updated.Streak != 2 {
		t.Errorf("Streak = %d, want 2", updated.Streak)
	}
	if updated.ID != h.ID || updated.CreatedAt != h.CreatedAt {
		t.Error("Update() changed immutable fields")
	}
}

func TestUpdateFrequencyRecomputesStreak(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := mustCreate(t, tr, "Plan", models.FrequencyDaily)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if _, err := tr.Toggle(h.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	weekly := models.FrequencyWeekly
	updated, err := tr.Update(h.ID, models.Patch{Frequency: &weekly})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Streak != 1 {
		t.Errorf("Streak after switching to weekly = %d, want 1", updated.Streak)
	}
}

func TestUpdateCompletedDatesAndClears(t *testing.T) {
	tr, _ := newTestTracker(t)
	goal := 3
	h, err := tr.Create(models.Draft{
		Name: "Yoga", Category: "Health", Frequency: models.FrequencyCustom,
		CustomDays: models.Weekdays{1, 3}, Goal: &goal,
		Reminder: &models.Reminder{Enabled: true, Time: "07:00"},
	})
	if err != nil {
		t.Fatal(err)
	}

	dates := []string{"2024-01-03", "2024-01-01", "2024-01-03"}
	daily := models.FrequencyDaily
	updated, err := tr.Update(h.ID, models.Patch{
		CompletedDates: &dates,
		Frequency:      &daily,
		ClearGoal:      true,
		ClearReminder:  true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"2024-01-01", "2024-01-03"}, updated.CompletedDates); diff != "" {
		t.Errorf("CompletedDates mismatch (-want +got):\n%s", diff)
	}
	if updated.Streak != 1 {
		t.Errorf("Streak = %d, want 1", updated.Streak)
	}
	if updated.Goal != nil || updated.Reminder != nil || updated.CustomDays != nil {
		t.Errorf("clears not applied: %+v", updated)
	}
}

func TestUpdateEmptyPatch(t *testing.T) {
	tr, store := newTestTracker(t)
	h := mustCreate(t, tr, "A", models.FrequencyDaily)
	before := store.puts

	got, err := tr.Update(h.ID, models.Patch{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("empty patch changed habit (-want +got):\n%s", diff)
	}
	if store.puts != before {
		t.Error("empty patch wrote to storage")
	}
}

func TestUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	tr, _ := newTestTracker(t)
	mustCreate(t, tr, "A", models.FrequencyDaily)
	before := tr.List()

	name := "x"
	ops := []struct {
		name string
		run  func() error
	}{
		{"update", func() error {
			_, err := tr.Update("missing", models.Patch{Name: &name})
			return err
		}},
		{"delete", func() error {
			return tr.Delete("missing")
		}},
		{"toggle", func() error {
			_, err := tr.Toggle("missing", "2024-01-01")
			return err
		}},
		{"get", func() error {
			_, err := tr.Get("missing")
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			err := op.run()
			if !herrors.IsNotFound(err) {
				t.Fatalf("%s error = %v, want NotFoundError", op.name, err)
			}
			if diff := cmp.Diff(before, tr.List()); diff != "" {
				t.Errorf("collection changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustCreate(t, tr, "A", models.FrequencyDaily)
	b := mustCreate(t, tr, "B", models.FrequencyDaily)
	if _, err := tr.Toggle(a.ID, "2024-01-09"); err != nil {
		t.Fatal(err)
	}

	if err := tr.Delete(a.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	list := tr.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("List() after delete = %+v", list)
	}
	if got := insights.TotalCompletions(list); got != 0 {
		t.Errorf("TotalCompletions after delete = %d, want 0", got)
	}
	if _, err := tr.Get(a.ID); !herrors.IsNotFound(err) {
		t.Errorf("Get() deleted habit error = %v", err)
	}
}

func TestFind(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustCreate(t, tr, "Read a Book", models.FrequencyDaily)
	mustCreate(t, tr, "Stretch", models.FrequencyDaily)
	mustCreate(t, tr, "stretch", models.FrequencyDaily)

	if got, err := tr.Find(a.ID); err != nil || got.ID != a.ID {
		t.Errorf("Find(id) = %v, %v", got.ID, err)
	}
	if got, err := tr.Find("read A BOOK"); err != nil || got.ID != a.ID {
		t.Errorf("Find(name) = %v, %v", got.ID, err)
	}
	if _, err := tr.Find("STRETCH"); !herrors.IsValidation(err) {
		t.Errorf("Find(ambiguous) error = %v, want ValidationError", err)
	}
	if _, err := tr.Find("nope"); !herrors.IsNotFound(err) {
		t.Errorf("Find(missing) error = %v, want NotFoundError", err)
	}
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	tr, store := newTestTracker(t)
	h := mustCreate(t, tr, "A", models.FrequencyDaily)

	store.fail = true
	got, err := tr.Toggle(h.ID, "2024-01-05")
	if !herrors.IsPersistence(err) {
		t.Fatalf("Toggle() error = %v, want PersistenceError", err)
	}
	if got.ID != h.ID || !got.CompletedOn("2024-01-05") || got.Streak != 1 {
		t.Errorf("Toggle() returned %+v alongside the persistence error", got)
	}

	current, _ := tr.Get(h.ID)
	if !current.CompletedOn("2024-01-05") {
		t.Error("in-memory toggle was rolled back")
	}

	_, err = tr.Create(models.Draft{Name: "B", Category: "Work"})
	if !herrors.IsPersistence(err) {
		t.Errorf("Create() error = %v, want PersistenceError", err)
	}
	if len(tr.List()) != 2 {
		t.Errorf("List() len = %d, want 2", len(tr.List()))
	}

	// The next successful write carries everything
	store.fail = false
	if err := tr.Delete(h.ID); err != nil {
		t.Fatal(err)
	}
	data, _ := store.Get(constants.KeyHabits)
	var persisted []models.Habit
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 1 || persisted[0].Name != "B" {
		t.Errorf("persisted after recovery = %+v", persisted)
	}
}

func TestLoadSeedsAndRecomputes(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	tr := New(store, WithToday(func() string { return "2023-05-20" }))
	if err := tr.Load(); err != nil {
		t.Fatal(err)
	}

	got := map[string]int{}
	for _, h := range tr.List() {
		got[h.Name] = h.Streak
	}
	want := map[string]int{
		"Morning Meditation": 5,
		"Read a Book":        3,
		"Weekly Planning":    1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("seeded streaks mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Get(constants.KeyHabits); err != nil {
		t.Errorf("seed was not persisted: %v", err)
	}
}

func TestLoadNormalizesStoredRecords(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	raw := `[
		{"id":"a","name":"A","category":"Health","frequency":"daily","streak":42,"createdAt":"2024-01-01",
		 "completedDates":["2024-01-03","2024-01-02","2024-01-03","bogus"]},
		{"id":"a","name":"Dup","category":"Work","frequency":"Weekly","streak":0,"createdAt":"2024-01-01","completedDates":[]}
	]`
	if err := store.Put(constants.KeyHabits, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	tr := New(store, WithIDGenerator(sequentialIDs()))
	if err := tr.Load(); err != nil {
		t.Fatal(err)
	}

	list := tr.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Frequency != models.FrequencyDaily {
		t.Errorf("Frequency = %q, want Daily", list[0].Frequency)
	}
	if diff := cmp.Diff([]string{"2024-01-02", "2024-01-03"}, list[0].CompletedDates); diff != "" {
		t.Errorf("CompletedDates mismatch (-want +got):\n%s", diff)
	}
	if list[0].Streak != 2 {
		t.Errorf("cached streak was trusted: %d", list[0].Streak)
	}
	if list[1].ID == "a" {
		t.Error("duplicate ID was kept")
	}
	if diff := cmp.Diff(map[string][]string{"a": {"bogus"}}, tr.InvalidDates()); diff != "" {
		t.Errorf("InvalidDates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2024-01-02", "2024-01-03", "bogus"}, tr.Stored()[0].CompletedDates); diff != "" {
		t.Errorf("Stored CompletedDates mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidStoredDatesAreReportedAndKept(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	raw := `[{"id":"a","name":"A","category":"Health","frequency":"Daily","createdAt":"2024-01-01",
		"completedDates":["2024-01-01","2024-02-30"]}]`
	if err := store.Put(constants.KeyHabits, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	tr := New(store, WithToday(func() string { return "2024-01-10" }))
	if err := tr.Load(); err != nil {
		t.Fatal(err)
	}

	h, err := tr.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if h.Streak != 1 {
		t.Errorf("Streak = %d, want 1 (invalid entries never count)", h.Streak)
	}

	result := validation.New().ValidateHabits(tr.Stored(), tr.Today())
	var found bool
	for _, c := range result.Conflicts {
		if c.Type == validation.ConflictInvalidDate {
			found = true
		}
	}
	if !found {
		t.Errorf("invalid stored date not reported: %+v", result.Conflicts)
	}

	if _, err := tr.Toggle("a", "2024-01-02"); err != nil {
		t.Fatal(err)
	}
	data, err := store.Get(constants.KeyHabits)
	if err != nil {
		t.Fatal(err)
	}
	var saved []models.Habit
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-02-30"}
	if diff := cmp.Diff(want, saved[0].CompletedDates); diff != "" {
		t.Errorf("saved CompletedDates mismatch (-want +got):\n%s", diff)
	}

	if err := tr.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if got := tr.InvalidDates(); len(got) != 0 {
		t.Errorf("InvalidDates after delete = %v, want empty", got)
	}
}

func TestReplaceRejectsInvalidDates(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Create(models.Draft{Name: "Keep", Category: "Health"}); err != nil {
		t.Fatal(err)
	}

	err := tr.Replace([]models.Habit{{
		ID:             "x",
		Name:           "Imported",
		Category:       "Health",
		Frequency:      models.FrequencyDaily,
		CreatedAt:      "2024-01-01",
		CompletedDates: []string{"2024-01-02", "2024-02-30"},
	}})
	if !herrors.IsInvalidDate(err) {
		t.Fatalf("Replace() error = %v, want InvalidDateError", err)
	}

	var names []string
	for _, h := range tr.List() {
		names = append(names, h.Name)
	}
	if diff := cmp.Diff([]string{"Keep"}, names); diff != "" {
		t.Errorf("collection changed after rejected Replace (-want +got):\n%s", diff)
	}
}

func TestLoadCorruptData(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = store.Init()
	_ = store.Put(constants.KeyHabits, []byte(`{"not":"a list"}`))

	if err := New(store).Load(); err == nil {
		t.Error("Load() accepted a non-list document")
	}
}

func TestMutationsBeforeLoad(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = store.Init()
	tr := New(store)

	if _, err := tr.Create(models.Draft{Name: "A", Category: "B"}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Create() before Load error = %v", err)
	}
	if err := tr.Delete("x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Delete() before Load error = %v", err)
	}
}

func TestReloadFromJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	tr := New(store, WithoutSeed(), WithToday(func() string { return "2024-01-10" }))
	if err := tr.Load(); err != nil {
		t.Fatal(err)
	}
	h := mustCreate(t, tr, "Walk", models.FrequencyDaily)
	for _, d := range []string{"2024-01-08", "2024-01-09"} {
		if _, err := tr.Toggle(h.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	reopened := storage.NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	tr2 := New(reopened)
	if err := tr2.Load(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tr.List(), tr2.List()); diff != "" {
		t.Errorf("reloaded collection mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace(t *testing.T) {
	tr, _ := newTestTracker(t)
	mustCreate(t, tr, "Old", models.FrequencyDaily)

	incoming := []models.Habit{{
		ID: "x", Name: "New", Category: "Work", Frequency: models.FrequencyDaily,
		CreatedAt: "2024-01-01", CompletedDates: []string{"2024-01-02", "2024-01-01"}, Streak: 99,
	}}
	if err := tr.Replace(incoming); err != nil {
		t.Fatal(err)
	}

	list := tr.List()
	if len(list) != 1 || list[0].Name != "New" || list[0].Streak != 2 {
		t.Errorf("List() after Replace = %+v", list)
	}
	if incoming[0].CompletedDates[0] != "2024-01-02" {
		t.Error("Replace() mutated its argument")
	}
}
