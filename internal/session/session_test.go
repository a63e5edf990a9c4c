package session

import (
	"testing"

	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func newStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	s := storage.NewMemoryStore()
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGreeting(t *testing.T) {
	m := NewManager(newStore(t))
	if got := m.Greeting(); got != "Hey there, let's crush it today!" {
		t.Errorf("Greeting() anonymous = %q", got)
	}

	if _, err := m.Login("John Doe", "john@example.com"); err != nil {
		t.Fatal(err)
	}
	if got := m.Greeting(); got != "Hey John Doe, let's crush it today!" {
		t.Errorf("Greeting() = %q", got)
	}
}

func TestLoginPersistsAcrossManagers(t *testing.T) {
	store := newStore(t)
	m := NewManager(store)
	u, err := m.Login("  Sam ", "sam@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Sam" || u.ID == "" {
		t.Errorf("Login() = %+v", u)
	}

	other := NewManager(store)
	if err := other.Load(); err != nil {
		t.Fatal(err)
	}
	got, ok := other.Current()
	if !ok || got != u {
		t.Errorf("Current() = %+v, %v; want %+v", got, ok, u)
	}
}

func TestLoginSameUserKeepsID(t *testing.T) {
	m := NewManager(newStore(t))
	first, _ := m.Login("Sam", "sam@example.com")
	second, _ := m.Login("sam", "SAM@example.com")
	if first.ID != second.ID {
		t.Errorf("re-login changed ID: %s -> %s", first.ID, second.ID)
	}
	third, _ := m.Login("Alex", "")
	if third.ID == first.ID {
		t.Error("different user reused ID")
	}
}

func TestLoginValidation(t *testing.T) {
	m := NewManager(newStore(t))
	if _, err := m.Login("", "x@example.com"); !herrors.IsValidation(err) {
		t.Errorf("Login() empty name error = %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Error("failed login set a user")
	}
}

func TestLogout(t *testing.T) {
	store := newStore(t)
	m := NewManager(store)
	if _, err := m.Login("Sam", ""); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Current(); ok {
		t.Error("Current() after Logout reports a user")
	}

	reloaded := NewManager(store)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if u, ok := reloaded.Current(); ok {
		t.Errorf("logout not persisted, got %+v", u)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	m := NewManager(newStore(t))
	if err := m.Load(); err != nil {
		t.Fatalf("Load() on empty store: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Error("unexpected user")
	}
	var zero models.User
	if u, _ := m.Current(); u != zero {
		t.Errorf("Current() = %+v, want zero value", u)
	}
}
