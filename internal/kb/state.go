package kb

import (
	"encoding/json"
	"fmt"
	"os"
)

// State is the durable progress checkpoint: the last page that reached a
// terminal outcome. One small JSON file, overwritten after every page.
type State struct {
	path string
}

// NewState creates a checkpoint at path
func NewState(path string) *State {
	return &State{path: path}
}

type stateRecord struct {
	CurrentPage int `json:"current_page"`
}

// Load returns the last completed page and whether a checkpoint existed.
// A missing or unreadable checkpoint means a fresh run starting at page 1.
func (s *State) Load() (int, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, false
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.CurrentPage < 0 {
		return 0, false
	}

	return rec.CurrentPage, true
}

// Save overwrites the checkpoint with the given page number.
func (s *State) Save(page int) error {
	data, err := json.Marshal(stateRecord{CurrentPage: page})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Path returns the checkpoint file path.
func (s *State) Path() string { return s.path }
