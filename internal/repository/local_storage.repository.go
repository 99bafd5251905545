package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
)

// LocalStorage is a client-local string key-value store.
type LocalStorage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type MemoryLocalStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{values: make(map[string]string)}
}

func (s *MemoryLocalStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryLocalStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// FileLocalStorage keeps all keys in one JSON object on disk.
type FileLocalStorage struct {
	mu   sync.Mutex
	path string
}

func DefaultLocalStoragePath() string {
	return filepath.Join(xdg.StateHome, "dashboard-service", "local-storage.json")
}

func NewFileLocalStorage(path string) *FileLocalStorage {
	if path == "" {
		path = DefaultLocalStoragePath()
	}

	return &FileLocalStorage{path: path}
}

func (s *FileLocalStorage) Path() string {
	return s.path
}

func (s *FileLocalStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}

	value, ok := values[key]
	return value, ok, nil
}

func (s *FileLocalStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		// a corrupt file is replaced rather than blocking writes forever
		values = make(map[string]string)
	}
	values[key] = value

	return s.write(values)
}

func (s *FileLocalStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading local storage: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing local storage %s: %w", s.path, err)
	}

	return values, nil
}

func (s *FileLocalStorage) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating local storage dir: %w", err)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing local storage: %w", err)
	}

	return os.Rename(tmp, s.path)
}
