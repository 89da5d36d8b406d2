package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Repository is the durable key-value record behind publish
// resumption. Get returns "" (not an error) for a missing key.
type Repository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear(key string) error
}

// FileRepository keeps the records in one JSON file next to the
// drafts, the closest equivalent of an origin-scoped store for a CLI.
type FileRepository struct {
	Path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

func (r *FileRepository) Get(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return "", err
	}
	return m[key], nil
}

func (r *FileRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	m[key] = value
	return r.save(m)
}

func (r *FileRepository) Clear(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return r.save(m)
}

func (r *FileRepository) load() (map[string]string, error) {
	b, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", r.Path, err)
	}
	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", r.Path, err)
	}
	return m, nil
}

func (r *FileRepository) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.Path, b, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", r.Path, err)
	}
	return nil
}

// MemoryRepository is the in-memory implementation for tests.
type MemoryRepository struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: map[string]string{}}
}

func (r *MemoryRepository) Get(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[key], nil
}

func (r *MemoryRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = value
	return nil
}

func (r *MemoryRepository) Clear(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
	return nil
}
