package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

func loadSettings(store storage.Provider) (models.Settings, error) {
	settings := models.Settings{Timezone: constants.DefaultTimezone}

	data, err := store.Get(constants.KeySettings)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	return settings, nil
}

// Settings returns the persisted preferences.
func (t *Tracker) Settings() models.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

// SetTimezone changes which calendar day counts as today.
func (t *Tracker) SetTimezone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	if !utils.ValidateTimezone(tz) {
		return herrors.NewValidationError("timezone", "unknown timezone %q", tz)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.settings
	next.Timezone = tz
	data, err := json.Marshal(next)
	if err != nil {
		return &herrors.PersistenceError{Op: "settings", Err: err}
	}

	t.settings = next
	if err := t.store.Put(constants.KeySettings, data); err != nil {
		logger.Warn("Failed to persist settings", "error", err)
		return &herrors.PersistenceError{Op: "settings", Err: err}
	}
	logger.Debug("Timezone updated", "timezone", tz)
	return nil
}
