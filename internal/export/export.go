// Package export writes and reads the habit collection as JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the exported file layout.
type Document struct {
	Version int            `json:"version" yaml:"version"`
	Habits  []models.Habit `json:"habits" yaml:"habits"`
}

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q (expected json or yaml)", s)
	}
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Write serializes habits to w.
func Write(w io.Writer, habits []models.Habit, format Format) error {
	if habits == nil {
		habits = []models.Habit{}
	}
	doc := Document{Version: constants.StoreVersion, Habits: habits}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
	return nil
}

// Read parses a document produced by Write. A bare JSON list of habits, as
// stored by the original dashboard, is accepted too.
func Read(r io.Reader, format Format) ([]models.Habit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}

	var doc Document
	switch format {
	case FormatJSON:
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			if err := json.Unmarshal(data, &doc.Habits); err != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
			return doc.Habits, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format: %q", format)
	}

	if doc.Version > constants.StoreVersion {
		return nil, fmt.Errorf("export version (%d) is newer than supported version (%d)", doc.Version, constants.StoreVersion)
	}
	return doc.Habits, nil
}
