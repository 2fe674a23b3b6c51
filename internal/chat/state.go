package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kdelane/enginectl/internal/engine"
)

// The session state file records the most recent session name per
// (agent, user) pair so an interrupted conversation can be resumed. It
// lives under ~/.enginectl/sessions/ unless a Manager overrides the
// directory.

// DefaultStateDir returns the default session state directory,
// creating it if needed.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	dir := filepath.Join(home, ".enginectl", "sessions")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return dir, nil
}

// stateFilePath derives the state file path for an (agent, user) pair.
// The agent's short ID keeps the filename stable across short-ID and
// full-resource-name invocations.
func stateFilePath(dir, agentName, userID string) string {
	name := sanitizeStateKey(engine.ShortID(agentName)) + "." + sanitizeStateKey(userID)
	return filepath.Join(dir, name)
}

// sanitizeStateKey replaces path-hostile characters so arbitrary user
// IDs cannot escape the state directory.
func sanitizeStateKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// loadSessionState returns the recorded session name, or "" when no
// state exists. A missing file is not an error.
func loadSessionState(dir, agentName, userID string) (string, error) {
	data, err := os.ReadFile(stateFilePath(dir, agentName, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading session state: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// saveSessionState records the session name for later resumption.
func saveSessionState(dir, agentName, userID, sessionName string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(stateFilePath(dir, agentName, userID), []byte(sessionName+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

// clearSessionState removes the state file. Idempotent.
func clearSessionState(dir, agentName, userID string) error {
	err := os.Remove(stateFilePath(dir, agentName, userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session state: %w", err)
	}
	return nil
}
