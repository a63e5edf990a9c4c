// Package board keeps the Today task board: named columns of short tasks,
// stored as one JSON document under the todayColumns key.
package board

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

// ErrLastColumn is returned when deleting the only column left on the board.
var ErrLastColumn = errors.New("cannot delete the last column")

type Manager struct {
	mu      sync.RWMutex
	store   storage.Provider
	columns []models.Column
	newID   func() string
}

func NewManager(store storage.Provider) *Manager {
	return &Manager{
		store:   store,
		columns: models.DefaultColumns(),
		newID:   uuid.NewString,
	}
}

// Load reads the stored board. A missing or empty board starts from the
// default To Do, Doing and Done columns.
func (m *Manager) Load() error {
	data, err := m.store.Get(constants.KeyTodayColumns)
	if errors.Is(err, storage.ErrKeyNotFound) {
		m.mu.Lock()
		m.columns = models.DefaultColumns()
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read task board: %w", err)
	}

	var cols []models.Column
	if err := json.Unmarshal(data, &cols); err != nil {
		return fmt.Errorf("failed to parse task board: %w", err)
	}
	if len(cols) == 0 {
		cols = models.DefaultColumns()
	}
	for i := range cols {
		if cols[i].Tasks == nil {
			cols[i].Tasks = []models.Task{}
		}
	}

	m.mu.Lock()
	m.columns = cols
	m.mu.Unlock()
	return nil
}

// Columns returns a copy of the board in display order.
func (m *Manager) Columns() []models.Column {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.CloneColumns(m.columns)
}

// Column returns a copy of the column named by ref.
func (m *Manager) Column(ref string) (models.Column, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ci, err := m.columnLocked(ref)
	if err != nil {
		return models.Column{}, err
	}
	return models.CloneColumns(m.columns[ci : ci+1])[0], nil
}

// AddTask appends a task titled title to the column named by ref. An empty
// ref means the first column.
func (m *Manager) AddTask(ref, title string) (models.Task, models.Column, error) {
	title = strings.TrimSpace(title)
	if err := validation.ValidateTitle("task", title); err != nil {
		return models.Task{}, models.Column{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ci := 0
	if ref != "" {
		var err error
		if ci, err = m.columnLocked(ref); err != nil {
			return models.Task{}, models.Column{}, err
		}
	}

	task := models.Task{ID: m.newID(), Title: title}
	m.columns[ci].Tasks = append(m.columns[ci].Tasks, task)
	logger.Debug("Task added", "task", task.ID, "column", m.columns[ci].ID)
	return task, m.columns[ci], m.saveLocked("add task")
}

// DeleteTask removes the task named by ref from whichever column holds it.
func (m *Manager) DeleteTask(ref string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ci, ti, err := m.taskLocked(ref)
	if err != nil {
		return models.Task{}, err
	}
	tasks := m.columns[ci].Tasks
	task := tasks[ti]
	m.columns[ci].Tasks = append(tasks[:ti:ti], tasks[ti+1:]...)
	return task, m.saveLocked("delete task")
}

// MoveTask moves the task named by ref to the end of column to.
func (m *Manager) MoveTask(ref, to string) (models.Task, models.Column, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ci, ti, err := m.taskLocked(ref)
	if err != nil {
		return models.Task{}, models.Column{}, err
	}
	dest, err := m.columnLocked(to)
	if err != nil {
		return models.Task{}, models.Column{}, err
	}
	task := m.columns[ci].Tasks[ti]
	if dest == ci {
		return task, m.columns[dest], nil
	}

	tasks := m.columns[ci].Tasks
	m.columns[ci].Tasks = append(tasks[:ti:ti], tasks[ti+1:]...)
	m.columns[dest].Tasks = append(m.columns[dest].Tasks, task)
	return task, m.columns[dest], m.saveLocked("move task")
}

// AddColumn appends an empty column titled title.
func (m *Manager) AddColumn(title string) (models.Column, error) {
	title = strings.TrimSpace(title)
	if err := validation.ValidateTitle("column", title); err != nil {
		return models.Column{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col := models.Column{ID: m.newID(), Title: title, Tasks: []models.Task{}}
	m.columns = append(m.columns, col)
	return col, m.saveLocked("add column")
}

// DeleteColumn removes the column named by ref together with its tasks. The
// board always keeps at least one column.
func (m *Manager) DeleteColumn(ref string) (models.Column, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ci, err := m.columnLocked(ref)
	if err != nil {
		return models.Column{}, err
	}
	if len(m.columns) <= 1 {
		return models.Column{}, ErrLastColumn
	}
	col := m.columns[ci]
	m.columns = append(m.columns[:ci:ci], m.columns[ci+1:]...)
	return col, m.saveLocked("delete column")
}

// columnLocked resolves ref as a column ID, then as a case-insensitive title.
func (m *Manager) columnLocked(ref string) (int, error) {
	for i, c := range m.columns {
		if c.ID == ref {
			return i, nil
		}
	}
	for i, c := range m.columns {
		if strings.EqualFold(c.Title, strings.TrimSpace(ref)) {
			return i, nil
		}
	}
	return -1, &herrors.NotFoundError{Kind: "column", ID: ref}
}

// taskLocked resolves ref as a task ID, then as a title that matches exactly
// one task on the board.
func (m *Manager) taskLocked(ref string) (int, int, error) {
	for ci, c := range m.columns {
		for ti, t := range c.Tasks {
			if t.ID == ref {
				return ci, ti, nil
			}
		}
	}

	ci, ti, matches := -1, -1, 0
	for i, c := range m.columns {
		for j, t := range c.Tasks {
			if strings.EqualFold(t.Title, strings.TrimSpace(ref)) {
				ci, ti = i, j
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return -1, -1, &herrors.NotFoundError{Kind: "task", ID: ref}
	case 1:
		return ci, ti, nil
	}
	return -1, -1, herrors.NewValidationError("task", "%d tasks are titled %q, use the task ID", matches, ref)
}

func (m *Manager) saveLocked(op string) error {
	data, err := json.Marshal(m.columns)
	if err != nil {
		return &herrors.PersistenceError{Op: op, Err: err}
	}
	if err := m.store.Put(constants.KeyTodayColumns, data); err != nil {
		return &herrors.PersistenceError{Op: op, Err: err}
	}
	return nil
}
