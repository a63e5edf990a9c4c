package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func newManager(t *testing.T) (*Manager, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	m := NewManager(store)
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	return m, store
}

func titles(cols []models.Column) []string {
	var out []string
	for _, c := range cols {
		out = append(out, c.Title)
	}
	return out
}

func TestLoadDefaultsToThreeColumns(t *testing.T) {
	m, _ := newManager(t)
	if diff := cmp.Diff([]string{"To Do", "Doing", "Done"}, titles(m.Columns())); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestAddTask(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		title   string
		wantCol string
		wantErr func(error) bool
	}{
		{name: "first column by default", title: "Buy milk", wantCol: "todo"},
		{name: "column by id", ref: "doing", title: "Write report", wantCol: "doing"},
		{name: "column by title", ref: "done", title: "Call mom", wantCol: "done"},
		{name: "title is case-insensitive", ref: "to do", title: "Walk", wantCol: "todo"},
		{name: "blank title", title: "   ", wantErr: herrors.IsValidation},
		{name: "unknown column", ref: "Later", title: "Nap", wantErr: herrors.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newManager(t)
			task, col, err := m.AddTask(tt.ref, tt.title)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("AddTask() error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddTask() error = %v", err)
			}
			if col.ID != tt.wantCol {
				t.Errorf("column = %q, want %q", col.ID, tt.wantCol)
			}
			if task.ID != "id-1" {
				t.Errorf("task ID = %q, want id-1", task.ID)
			}
		})
	}
}

func TestBoardPersistsAcrossManagers(t *testing.T) {
	m, store := newManager(t)
	if _, _, err := m.AddTask("", "  Buy milk "); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddColumn("Later"); err != nil {
		t.Fatal(err)
	}

	other := NewManager(store)
	if err := other.Load(); err != nil {
		t.Fatal(err)
	}
	want := []models.Column{
		{ID: "todo", Title: "To Do", Tasks: []models.Task{{ID: "id-1", Title: "Buy milk"}}},
		{ID: "doing", Title: "Doing", Tasks: []models.Task{}},
		{ID: "done", Title: "Done", Tasks: []models.Task{}},
		{ID: "id-2", Title: "Later", Tasks: []models.Task{}},
	}
	if diff := cmp.Diff(want, other.Columns()); diff != "" {
		t.Errorf("reloaded board mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Get(constants.KeyTodayColumns); err != nil {
		t.Errorf("board not stored under %s: %v", constants.KeyTodayColumns, err)
	}
}

func TestLoadReadsStoredArray(t *testing.T) {
	m, store := newManager(t)
	raw := `[{"id":"1700000000000","title":"Errands","tasks":[{"id":"1","title":"Post office"}]}]`
	if err := store.Put(constants.KeyTodayColumns, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	cols := m.Columns()
	if len(cols) != 1 || cols[0].Title != "Errands" || len(cols[0].Tasks) != 1 {
		t.Errorf("Columns() = %+v", cols)
	}
}

func TestDeleteTask(t *testing.T) {
	m, _ := newManager(t)
	first, _, _ := m.AddTask("", "Buy milk")
	if _, _, err := m.AddTask("doing", "Write report"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.DeleteTask(first.ID); err != nil {
		t.Fatalf("DeleteTask(id) error = %v", err)
	}
	got, err := m.DeleteTask("write REPORT")
	if err != nil {
		t.Fatalf("DeleteTask(title) error = %v", err)
	}
	if got.Title != "Write report" {
		t.Errorf("deleted %q", got.Title)
	}
	for _, c := range m.Columns() {
		if len(c.Tasks) != 0 {
			t.Errorf("column %s still has %v", c.ID, c.Tasks)
		}
	}

	if _, err := m.DeleteTask("nothing"); !herrors.IsNotFound(err) {
		t.Errorf("DeleteTask(missing) error = %v, want not found", err)
	}
}

func TestDeleteTaskAmbiguousTitle(t *testing.T) {
	m, _ := newManager(t)
	m.AddTask("todo", "Stretch")
	m.AddTask("done", "Stretch")

	if _, err := m.DeleteTask("Stretch"); !herrors.IsValidation(err) {
		t.Errorf("DeleteTask() error = %v, want validation error", err)
	}
}

func TestMoveTask(t *testing.T) {
	m, _ := newManager(t)
	m.AddTask("", "A")
	b, _, _ := m.AddTask("", "B")

	_, col, err := m.MoveTask(b.ID, "Doing")
	if err != nil {
		t.Fatal(err)
	}
	if col.ID != "doing" {
		t.Errorf("moved to %q", col.ID)
	}
	cols := m.Columns()
	if diff := cmp.Diff([]models.Task{{ID: "id-1", Title: "A"}}, cols[0].Tasks); diff != "" {
		t.Errorf("To Do mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]models.Task{b}, cols[1].Tasks); diff != "" {
		t.Errorf("Doing mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := m.MoveTask(b.ID, "nowhere"); !herrors.IsNotFound(err) {
		t.Errorf("MoveTask(bad column) error = %v", err)
	}
}

func TestDeleteColumn(t *testing.T) {
	m, _ := newManager(t)
	m.AddTask("doing", "Write report")

	col, err := m.DeleteColumn("Doing")
	if err != nil {
		t.Fatal(err)
	}
	if len(col.Tasks) != 1 {
		t.Errorf("deleted column tasks = %v", col.Tasks)
	}
	if _, err := m.DeleteColumn("done"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.DeleteColumn("todo"); !errors.Is(err, ErrLastColumn) {
		t.Errorf("DeleteColumn(last) error = %v, want ErrLastColumn", err)
	}
	if diff := cmp.Diff([]string{"To Do"}, titles(m.Columns())); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestAddColumnRejectsBlankTitle(t *testing.T) {
	m, _ := newManager(t)
	if _, err := m.AddColumn(" "); !herrors.IsValidation(err) {
		t.Errorf("AddColumn() error = %v", err)
	}
	if len(m.Columns()) != 3 {
		t.Errorf("blank column was added")
	}
}

func TestColumnsReturnsCopy(t *testing.T) {
	m, _ := newManager(t)
	m.AddTask("", "A")
	cols := m.Columns()
	cols[0].Tasks[0].Title = "changed"
	if m.Columns()[0].Tasks[0].Title != "A" {
		t.Error("Columns() aliases the board")
	}
}

func TestColumn(t *testing.T) {
	m, _ := newManager(t)
	m.AddTask("doing", "Write report")

	col, err := m.Column("DOING")
	if err != nil {
		t.Fatal(err)
	}
	if col.ID != "doing" || len(col.Tasks) != 1 {
		t.Errorf("Column() = %+v", col)
	}
	if _, err := m.Column("Someday"); !herrors.IsNotFound(err) {
		t.Errorf("Column(missing) error = %v", err)
	}
}
