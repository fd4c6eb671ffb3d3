// Package store persists the user's credentials as an opaque key-value
// file. It knows nothing about what the values mean; validation is the
// provider's job.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Logical keys. These are the only two records the store holds.
const (
	KeyAPIKey        = "api_key"
	KeySelectedModel = "selected_model"
)

// Store reads and writes credentials from a JSON file. Absence of a key
// is a valid "unset" state, distinct from an empty string, and both are
// distinct from a storage failure.
type Store struct {
	path string
}

// Open returns a store backed by the default credentials file,
// creating its directory if needed.
func Open() (*Store, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials path: %w", err)
	}
	return OpenAt(path)
}

// OpenAt returns a store backed by the given file.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Get returns the value for key. ok is false when the key has never
// been set; err is non-nil only when the underlying file is unreadable.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	records, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok = records[key]
	return value, ok, nil
}

// Set persists value under key immediately.
func (s *Store) Set(key, value string) error {
	records, err := s.load()
	if err != nil {
		return err
	}
	records[key] = value
	return s.save(records)
}

// Delete removes a single key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	records, err := s.load()
	if err != nil {
		return err
	}
	delete(records, key)
	return s.save(records)
}

// Clear removes both credential records.
func (s *Store) Clear() error {
	return s.save(map[string]string{})
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	records := map[string]string{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return records, nil
}

func (s *Store) save(records map[string]string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

func credentialsPath() (string, error) {
	var dir string

	// Use PLUME_HOME if set, otherwise the user's home directory.
	if plumeHome := os.Getenv("PLUME_HOME"); plumeHome != "" {
		dir = plumeHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = homeDir
	}

	return filepath.Join(dir, ".plume", "credentials.json"), nil
}
