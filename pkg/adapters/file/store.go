package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// DefaultStateDir is used when no directory is configured.
var DefaultStateDir = filepath.Join(".recipe-decider", "sessions")

// Store implements ports.UIStateStore using the local filesystem.
// Each session is one JSON document keyed by domain.UIStateKey.
type Store struct {
	BasePath string
}

// document is the on-disk layout.
type document map[string]domain.UIState

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to DefaultStateDir.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultStateDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("sessionID cannot be empty")
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return "", fmt.Errorf("invalid sessionID %q", sessionID)
	}
	return filepath.Join(s.BasePath, sessionID+".json"), nil
}

// Save persists the UI state atomically.
func (s *Store) Save(ctx context.Context, sessionID string, ui *domain.UIState) error {
	destPath, err := s.path(sessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(document{domain.UIStateKey: *ui}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ui state: %w", err)
	}
	return writeAtomic(destPath, data)
}

// Load retrieves the UI state from its JSON file.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.UIState, error) {
	filePath, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ui state: %w", err)
	}
	ui, ok := doc[domain.UIStateKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q entry", domain.ErrMalformed, filePath, domain.UIStateKey)
	}
	return &ui, nil
}

// Delete removes the session file.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	filePath, err := s.path(sessionID)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(sessions)
	return sessions, nil
}
