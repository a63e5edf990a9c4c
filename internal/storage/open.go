package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
)

// KeyringConfig selects the PostgreSQL store with its connection string taken
// from the environment or the OS keyring.
const KeyringConfig = "keyring"

// Kind identifies a storage backend.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindJSON     Kind = "json"
	KindPostgres Kind = "postgres"
	KindMemory   Kind = "memory"
)

// DetectKind maps a --config value to the backend it selects.
func DetectKind(config string) Kind {
	switch {
	case config == constants.MemoryConfigPath:
		return KindMemory
	case config == KeyringConfig, IsPostgresConnString(config):
		return KindPostgres
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open builds the provider selected by config without touching the backend.
// resolveConn supplies the connection string when config is "keyring".
func Open(config string, resolveConn func() (string, error)) (Provider, error) {
	switch DetectKind(config) {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindPostgres:
		connStr := config
		if config == KeyringConfig {
			if resolveConn == nil {
				return nil, fmt.Errorf("no connection resolver configured")
			}
			resolved, err := resolveConn()
			if err != nil {
				return nil, err
			}
			connStr = resolved
		} else if HasEmbeddedCredentials(config) {
			// Passwords belong in the keyring, the environment or .pgpass
			return nil, ErrEmbeddedCredentials
		}
		return NewPostgresStore(connStr), nil
	case KindJSON:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return NewJSONStore(path), nil
	default:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path), nil
	}
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
