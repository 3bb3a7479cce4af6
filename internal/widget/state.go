package widget

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const defaultStatePath = "~/.supportchat/state.json"

// persistedState is the externally observable continuity value: the
// conversation id the widget resumes on its next open.
type persistedState struct {
	ConversationID int64 `json:"conversationId"`
}

func loadState(path string) (persistedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return persistedState{}, nil
		}
		return persistedState{}, fmt.Errorf("read state: %w", err)
	}

	var s persistedState
	if err := json.Unmarshal(data, &s); err != nil {
		return persistedState{}, fmt.Errorf("parse state: %w", err)
	}
	return s, nil
}

func saveState(path string, s persistedState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
