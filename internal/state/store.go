package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Selection is the persisted per-user state: the last selected persona and
// model. Absent fields fall back to configured defaults at load time.
type Selection struct {
	PersonaName string `json:"persona_name,omitempty"`
	ModelID     string `json:"model_id,omitempty"`
}

// Store reads and writes the selection state file.
type Store struct {
	path string
}

// NewStore creates a store at the given path; empty means DefaultPath.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// DefaultPath returns the per-user state file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "rolepilot", "state.json"), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted selection. A missing file is not an error; it
// yields the zero Selection.
func (s *Store) Load() (Selection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, nil
		}
		return Selection{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		// A corrupt state file should not brick the tool; start fresh.
		return Selection{}, nil
	}
	return sel, nil
}

// Save writes the selection, creating the directory on first use. The write
// goes through a temp file and rename so a crash cannot leave a torn file.
func (s *Store) Save(sel Selection) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
