package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigStore resolves which JSON config file a command should use.
type ConfigStore struct {
	path            string
	defaultFilename string
	fallbackPath    string
}

// NewConfigStore creates a store that looks for defaultFilename in the working
// directory before falling back to fallbackPath.
func NewConfigStore(defaultFilename, fallbackPath string) *ConfigStore {
	return &ConfigStore{defaultFilename: defaultFilename, fallbackPath: fallbackPath}
}

// Path returns the explicit path, or empty if unset.
func (s *ConfigStore) Path() string {
	return s.path
}

// SetPath stores an explicit path as an absolute one. An empty path clears it.
func (s *ConfigStore) SetPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		s.path = ""
		return "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	s.path = absPath
	return absPath, nil
}

// DetectDefault checks the current working directory for the default filename.
func (s *ConfigStore) DetectDefault() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	path := filepath.Join(cwd, s.defaultFilename)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// Existing returns the file to load: the explicit path, then the default
// filename in the working directory, then the fallback path if it exists.
// An empty result means no file should be read.
func (s *ConfigStore) Existing() string {
	if s.path != "" {
		return s.path
	}
	if path, ok := s.DetectDefault(); ok {
		return path
	}
	if s.fallbackPath != "" {
		if _, err := os.Stat(s.fallbackPath); err == nil {
			return s.fallbackPath
		}
	}
	return ""
}

// Target returns the file `config init` writes: the explicit path if set,
// otherwise the fallback path.
func (s *ConfigStore) Target() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	if s.fallbackPath == "" {
		return "", fmt.Errorf("no config path available")
	}
	return s.fallbackPath, nil
}
