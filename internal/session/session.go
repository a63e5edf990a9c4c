// Package session remembers who is using the tracker. Habits are not scoped
// by user; the identity only personalizes output.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

type record struct {
	User *models.User `json:"user"`
}

type Manager struct {
	mu    sync.RWMutex
	store storage.Provider
	user  *models.User
	newID func() string
}

func NewManager(store storage.Provider) *Manager {
	return &Manager{
		store: store,
		newID: uuid.NewString,
	}
}

// Load reads the stored session. A missing session means nobody is logged in.
func (m *Manager) Load() error {
	data, err := m.store.Get(constants.KeySession)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}

	m.mu.Lock()
	m.user = rec.User
	m.mu.Unlock()
	return nil
}

// Login records name and email as the current user.
func (m *Manager) Login(name, email string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validation.ValidateLogin(name, email); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := models.User{ID: m.newID(), Name: name, Email: email}
	// Logging in again as the same person keeps the ID
	if m.user != nil && strings.EqualFold(m.user.Name, name) && strings.EqualFold(m.user.Email, email) {
		u.ID = m.user.ID
	}

	if err := m.saveLocked(&u); err != nil {
		return models.User{}, err
	}
	m.user = &u
	logger.Debug("Logged in", "user", u.ID)
	return u, nil
}

// Logout clears the current user.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveLocked(nil); err != nil {
		return err
	}
	m.user = nil
	return nil
}

// Current returns the logged-in user, if any.
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// Greeting is the dashboard headline for the current user.
func (m *Manager) Greeting() string {
	name := "there"
	if u, ok := m.Current(); ok && u.Name != "" {
		name = u.Name
	}
	return fmt.Sprintf("Hey %s, let's crush it today!", name)
}

func (m *Manager) saveLocked(u *models.User) error {
	data, err := json.Marshal(record{User: u})
	if err != nil {
		return &herrors.PersistenceError{Op: "session", Err: err}
	}
	if err := m.store.Put(constants.KeySession, data); err != nil {
		return &herrors.PersistenceError{Op: "session", Err: err}
	}
	return nil
}
