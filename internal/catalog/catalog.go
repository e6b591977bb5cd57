// Package catalog persists the category/question/answer catalog as a single
// flat JSON file and serves read-only lookups to the resolution core.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/textnorm"
)

// Store is the file-backed catalog. Reads hand out copies, so a resolution
// in flight never observes a concurrent append.
type Store struct {
	path string

	mu   sync.RWMutex
	data []models.Category
}

// Load reads the catalog file. A missing file is not an error: the store
// starts empty and creates the file on the first append.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("catalog file %s does not exist, starting with an empty catalog", path)
			return s, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	log.Infof("Loaded catalog from %s (%d categories)", path, len(s.data))
	return s, nil
}

// GetCategory looks a category up by name, case-insensitively.
func (s *Store) GetCategory(name string) (*models.Category, bool) {
	want := textnorm.Light(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data {
		if textnorm.Light(s.data[i].Name) == want {
			return copyCategory(&s.data[i]), true
		}
	}
	return nil, false
}

// Categories returns a snapshot of every category.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.data))
	for i := range s.data {
		out = append(out, *copyCategory(&s.data[i]))
	}
	return out
}

// Append adds an entry to an existing category and saves the file.
// Unknown categories are rejected; creating categories is a curation task,
// not an API operation.
func (s *Store) Append(category string, entry models.FaqEntry) error {
	want := textnorm.Light(category)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data {
		if textnorm.Light(s.data[i].Name) == want {
			s.data[i].Entries = append(s.data[i].Entries, entry)
			return s.save()
		}
	}
	return models.ErrCategoryNotFound
}

// save writes the catalog atomically (temp file + rename). Caller holds mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create catalog temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

func copyCategory(c *models.Category) *models.Category {
	entries := make([]models.FaqEntry, len(c.Entries))
	copy(entries, c.Entries)
	return &models.Category{Name: c.Name, Entries: entries}
}
