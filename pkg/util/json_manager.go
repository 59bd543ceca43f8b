package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONManager handles reading and writing one JSON document on disk.
// Writes go to a temporary sibling file that is renamed over the target,
// so readers never observe a partially written document.
type JSONManager struct {
	filePath string
	mu       sync.RWMutex
}

// NewJSONManager creates a new JSONManager.
func NewJSONManager(filePath string) *JSONManager {
	return &JSONManager{
		filePath: filePath,
	}
}

// NewJSONManagerIn creates a JSONManager for name inside baseDir, rejecting
// names that would escape the directory.
func NewJSONManagerIn(baseDir, name string) (*JSONManager, error) {
	p, err := SafeJoin(baseDir, name)
	if err != nil {
		return nil, err
	}
	return NewJSONManager(p), nil
}

// Path returns the managed file path.
func (m *JSONManager) Path() string {
	return m.filePath
}

// Exists reports whether the file is present.
func (m *JSONManager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, err := os.Stat(m.filePath)
	return err == nil && !info.IsDir()
}

// Load reads the JSON file and unmarshals it into data.
// A missing file yields an error matching os.ErrNotExist.
func (m *JSONManager) Load(data any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fileData, err := os.ReadFile(m.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(fileData, data); err != nil {
		return fmt.Errorf("failed to unmarshal json: %w", err)
	}

	return nil
}

// Save marshals data with two-space indentation and atomically replaces the file.
func (m *JSONManager) Save(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fileData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}

	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(m.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(fileData); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, m.filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// Remove deletes the file. Removing a missing file is not an error.
func (m *JSONManager) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// SafeJoin joins relPath onto baseDir and fails when the result leaves baseDir.
func SafeJoin(baseDir, relPath string) (string, error) {
	cleanBase := filepath.Clean(baseDir)
	cleanPath := filepath.Join(cleanBase, relPath)
	rel, err := filepath.Rel(cleanBase, cleanPath)
	if err != nil || rel == "." || HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid path: %s", relPath)
	}
	return cleanPath, nil
}
