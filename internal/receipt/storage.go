package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage archives the original upload bytes alongside the persisted
// record, keyed by receipt ID.
type Storage interface {
	// Save stores a file and returns the key it was stored under
	Save(key string, data []byte) (string, error)

	// Get retrieves a file by key
	Get(key string) ([]byte, error)

	// Delete removes a file
	Delete(key string) error
}

// LocalStorage implements the Storage interface on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance, creating the base
// directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save stores a file under the base directory
func (l *LocalStorage) Save(key string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, key)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return key, nil
}

// Get retrieves a file from the base directory
func (l *LocalStorage) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, key))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a file from the base directory
func (l *LocalStorage) Delete(key string) error {
	if err := os.Remove(filepath.Join(l.basePath, key)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
