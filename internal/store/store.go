// Package store implements contact list persistence to a JSON file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smileynet/rolodex/internal/contact"
)

// ErrInvalidPath indicates the store was created with an empty file path.
var ErrInvalidPath = errors.New("store: invalid contacts file path")

// FileStore persists the contact list as a single JSON array file.
// The file is rewritten in full on every Save; there are no partial writes.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the contacts file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the contact list from the file.
// An absent file yields an empty list and no error. An unreadable or
// malformed file yields an empty list and the underlying error, so callers
// can warn and continue with an empty book.
func (s *FileStore) Load() ([]contact.Contact, error) {
	if s.path == "" {
		return nil, ErrInvalidPath
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", s.path, err)
	}

	var contacts []contact.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("store: parsing %s: %w", s.path, err)
	}
	return contacts, nil
}

// Save overwrites the file with the given contact list.
// A nil list is persisted as an empty JSON array so a cleared book
// round-trips to a valid file.
func (s *FileStore) Save(contacts []contact.Contact) error {
	if s.path == "" {
		return ErrInvalidPath
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: creating directory: %w", err)
		}
	}

	if contacts == nil {
		contacts = []contact.Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshaling: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the contacts file. Missing files are not an error.
func (s *FileStore) Remove() error {
	if s.path == "" {
		return ErrInvalidPath
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: removing %s: %w", s.path, err)
	}
	return nil
}
