package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/sirupsen/logrus"
)

// LocalStore keeps the dataset in a single JSON file
type LocalStore struct {
	path string
	log  *logrus.Logger
	mu   sync.Mutex
}

// NewLocalStore creates a store backed by the file at path
func NewLocalStore(path string, log *logrus.Logger) *LocalStore {
	return &LocalStore{path: path, log: log}
}

// Path returns the snapshot file location
func (s *LocalStore) Path() string {
	return s.path
}

// Save atomically replaces the snapshot file
func (s *LocalStore) Save(_ context.Context, data *models.AppData) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(b)
}

// Load reads the snapshot. A missing file yields an empty dataset with the
// default categories; an undecodable file is logged and treated the same way.
func (s *LocalStore) Load(_ context.Context) (*models.AppData, error) {
	s.mu.Lock()
	b, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Infof("No local snapshot at %s, starting empty", s.path)
		return models.NewSeededAppData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	data, err := Decode(b)
	if err != nil {
		s.log.Warnf("Local snapshot %s is unreadable, starting empty: %v", s.path, err)
		return models.NewSeededAppData(), nil
	}
	data.SeedCategories()
	return data, nil
}

// ExportBlob returns the raw snapshot bytes, or nil when nothing was saved yet
func (s *LocalStore) ExportBlob() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return b, nil
}

// ImportBlob validates b as a snapshot and overwrites the stored one with it
func (s *LocalStore) ImportBlob(b []byte) (*models.AppData, error) {
	data, err := Decode(b)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(b); err != nil {
		return nil, err
	}
	return data, nil
}

// write stores b through a temp file in the same directory so a crash never
// leaves a half-written snapshot behind
func (s *LocalStore) write(b []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
