package storage

import "errors"

var (
	// ErrKeyNotFound is returned by Get when nothing is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access. Values are opaque serialized documents.
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed stores.
type Migrator interface {
	// Migrate applies pending migrations and returns how many ran.
	Migrate() (int, error)
	// SchemaVersion reports the applied and the latest known schema version.
	SchemaVersion() (current, latest int, err error)
}
