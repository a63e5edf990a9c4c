// Package tracker owns the habit collection. Every mutation is applied in
// memory first and then written through to the storage provider.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/seed"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// ErrNotLoaded is returned by mutations issued before Load.
var ErrNotLoaded = errors.New("habits not loaded")

type Option func(*Tracker)

// WithToday overrides the clock used for creation days and toggles of today.
func WithToday(today func() string) Option {
	return func(t *Tracker) { t.today = today }
}

// WithIDGenerator overrides how new habit IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// WithSeed replaces the example collection written when storage is empty.
func WithSeed(habits []models.Habit) Option {
	return func(t *Tracker) {
		t.seed = func() []models.Habit {
			out := make([]models.Habit, len(habits))
			for i, h := range habits {
				out[i] = h.Clone()
			}
			return out
		}
	}
}

// WithoutSeed starts empty storage with an empty collection.
func WithoutSeed() Option {
	return func(t *Tracker) { t.seed = nil }
}

type Tracker struct {
	mu       sync.RWMutex
	store    storage.Provider
	habits   []models.Habit
	settings models.Settings
	// invalid holds stored completion entries that are not day keys, by
	// habit ID. They are kept out of habits but written back on save.
	invalid  map[string][]string
	loaded   bool

	today func() string
	newID func() string
	seed  func() []models.Habit
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		settings: models.Settings{Timezone: constants.DefaultTimezone},
		newID:    uuid.NewString,
		seed:     seed.Habits,
	}
	t.today = t.settingsToday
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// settingsToday resolves today in the configured timezone. Callers hold t.mu.
func (t *Tracker) settingsToday() string {
	day, err := utils.TodayInTimezone(t.settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone setting, using local time", "timezone", t.settings.Timezone, "error", err)
		return utils.Today(time.Local)
	}
	return day
}

// Load reads the collection from storage, seeding it when nothing is stored.
// Stored streak values are recomputed.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	settings, err := loadSettings(t.store)
	if err != nil {
		return err
	}
	t.settings = settings

	data, err := t.store.Get(constants.KeyHabits)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		var initial []models.Habit
		if t.seed != nil {
			initial = t.seed()
		}
		t.habits, t.invalid = normalizeAll(initial, t.newID)
		t.loaded = true
		logger.Info("Seeding habit collection", "count", len(t.habits))
		return t.persistLocked("seed")
	case err != nil:
		return fmt.Errorf("failed to read habits: %w", err)
	}

	habits, err := decode(data)
	if err != nil {
		return err
	}
	t.habits, t.invalid = normalizeAll(habits, t.newID)
	t.loaded = true
	logger.Debug("Habits loaded", "count", len(t.habits), "invalid", len(t.invalid))
	return nil
}

// Replace swaps the whole collection, as when importing or reinitializing.
// A collection holding a completion entry that is not a valid day key is
// rejected with an InvalidDateError and nothing changes.
func (t *Tracker) Replace(habits []models.Habit) error {
	if err := firstInvalid(habits); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	clones := make([]models.Habit, len(habits))
	for i, h := range habits {
		clones[i] = h.Clone()
	}
	t.habits, t.invalid = normalizeAll(clones, t.newID)
	t.loaded = true
	logger.Info("Habit collection replaced", "count", len(t.habits))
	return t.persistLocked("import")
}

// Create appends a new habit built from d.
func (t *Tracker) Create(d models.Draft) (models.Habit, error) {
	if d.Frequency == "" {
		d.Frequency = models.FrequencyDaily
	}
	if err := validation.ValidateDraft(d); err != nil {
		return models.Habit{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return models.Habit{}, ErrNotLoaded
	}

	h := models.Habit{
		ID:             t.newID(),
		Name:           strings.TrimSpace(d.Name),
		Category:       strings.TrimSpace(d.Category),
		Frequency:      d.Frequency,
		CustomDays:     d.CustomDays.Normalize(),
		Notes:          d.Notes,
		CreatedAt:      t.today(),
		CompletedDates: []string{},
		Streak:         0,
	}
	if d.Goal != nil {
		g := *d.Goal
		h.Goal = &g
	}
	if d.Reminder != nil {
		r := *d.Reminder
		h.Reminder = &r
	}

	t.habits = append(t.habits, h)
	logger.Debug("Habit created", "id", h.ID, "name", h.Name)

	out := h.Clone()
	return out, t.persistLocked("create")
}

// Update merges the non-nil fields of p into the habit with id. The streak
// is recomputed afterwards; it can never be set directly.
func (t *Tracker) Update(id string, p models.Patch) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return models.Habit{}, ErrNotLoaded
	}

	idx := t.indexLocked(id)
	if idx < 0 {
		return models.Habit{}, &herrors.NotFoundError{ID: id}
	}
	if p.IsEmpty() {
		return t.habits[idx].Clone(), nil
	}
	if err := validation.ValidatePatch(p, t.habits[idx]); err != nil {
		return models.Habit{}, err
	}

	h := t.habits[idx].Clone()
	applyPatch(&h, p)
	if p.CompletedDates != nil {
		delete(t.invalid, id)
	}

	s, err := streak.Compute(streak.PolicyFor(h), h.CompletedDates)
	if err != nil {
		return models.Habit{}, err
	}
	h.Streak = s

	t.habits[idx] = h
	logger.Debug("Habit updated", "id", id, "streak", s)

	return h.Clone(), t.persistLocked("update")
}

func applyPatch(h *models.Habit, p models.Patch) {
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		h.Category = strings.TrimSpace(*p.Category)
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.CustomDays != nil {
		h.CustomDays = p.CustomDays.Normalize()
	}
	if h.Frequency != models.FrequencyCustom {
		h.CustomDays = nil
	}
	if p.Notes != nil {
		h.Notes = *p.Notes
	}
	if p.ClearGoal {
		h.Goal = nil
	} else if p.Goal != nil {
		g := *p.Goal
		h.Goal = &g
	}
	if p.ClearReminder {
		h.Reminder = nil
	} else if p.Reminder != nil {
		r := *p.Reminder
		h.Reminder = &r
	}
	if p.CompletedDates != nil {
		// Already validated, so nothing is dropped here
		h.CompletedDates, _ = normalizeDates(*p.CompletedDates)
	}
}

// Delete removes the habit with id.
func (t *Tracker) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return ErrNotLoaded
	}

	idx := t.indexLocked(id)
	if idx < 0 {
		return &herrors.NotFoundError{ID: id}
	}

	next := make([]models.Habit, 0, len(t.habits)-1)
	next = append(next, t.habits[:idx]...)
	next = append(next, t.habits[idx+1:]...)
	t.habits = next
	delete(t.invalid, id)
	logger.Debug("Habit deleted", "id", id)

	return t.persistLocked("delete")
}

// List returns a copy of the collection in insertion order.
func (t *Tracker) List() []models.Habit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// Stored returns the collection as it is persisted: List plus any stored
// completion entries that are not valid day keys. Use it to audit data.
func (t *Tracker) Stored() []models.Habit {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.storedLocked()
}

// InvalidDates returns the stored completion entries that are not valid day
// keys, by habit ID. They never count towards streaks or insights.
func (t *Tracker) InvalidDates() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]string, len(t.invalid))
	for id, dates := range t.invalid {
		out[id] = append([]string(nil), dates...)
	}
	return out
}

func (t *Tracker) storedLocked() []models.Habit {
	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = withInvalid(h, t.invalid)
	}
	return out
}

// Get returns the habit with id.
func (t *Tracker) Get(id string) (models.Habit, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.indexLocked(id)
	if idx < 0 {
		return models.Habit{}, &herrors.NotFoundError{ID: id}
	}
	return t.habits[idx].Clone(), nil
}

// Find resolves ref as an ID, then as a case-insensitive habit name.
func (t *Tracker) Find(ref string) (models.Habit, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if idx := t.indexLocked(ref); idx >= 0 {
		return t.habits[idx].Clone(), nil
	}

	want := strings.TrimSpace(ref)
	var matches []int
	for i, h := range t.habits {
		if strings.EqualFold(h.Name, want) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return models.Habit{}, &herrors.NotFoundError{ID: ref}
	case 1:
		return t.habits[matches[0]].Clone(), nil
	default:
		return models.Habit{}, herrors.NewValidationError("habit", "%q matches %d habits, use the ID instead", ref, len(matches))
	}
}

// Today returns the tracker's reference day.
func (t *Tracker) Today() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.today()
}

// StorePath describes where the collection is persisted.
func (t *Tracker) StorePath() string {
	return t.store.GetConfigPath()
}

func (t *Tracker) indexLocked(id string) int {
	for i := range t.habits {
		if t.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the collection through. The in-memory state stays
// authoritative when the write fails.
func (t *Tracker) persistLocked(op string) error {
	data, err := encode(t.storedLocked())
	if err != nil {
		return &herrors.PersistenceError{Op: op, Err: err}
	}
	if err := t.store.Put(constants.KeyHabits, data); err != nil {
		logger.Warn("Failed to persist habits", "op", op, "error", err)
		return &herrors.PersistenceError{Op: op, Err: err}
	}
	return nil
}
