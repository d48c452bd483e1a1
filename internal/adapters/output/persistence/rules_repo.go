// Package persistence stores the host rule file and the bridge config as YAML.
package persistence

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLAutomationRepository reads and writes the whole rule file, a YAML list
// of rule mappings.
type YAMLAutomationRepository struct {
	filepath string
	mu       sync.RWMutex

	// hash of the last content this repository wrote
	lastWrite [sha256.Size]byte
}

func NewYAMLAutomationRepository(filepath string) *YAMLAutomationRepository {
	return &YAMLAutomationRepository{filepath: filepath}
}

func (r *YAMLAutomationRepository) Path() string { return r.filepath }

// Load returns an empty list when the file is missing or empty.
func (r *YAMLAutomationRepository) Load(ctx context.Context) ([]map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if errors.Is(err, os.ErrNotExist) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	var rules []map[string]any
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("rule file %s: %w", r.filepath, err)
	}
	if rules == nil {
		rules = []map[string]any{}
	}
	return rules, nil
}

func (r *YAMLAutomationRepository) Save(ctx context.Context, rules []map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rules == nil {
		rules = []map[string]any{}
	}
	data, err := yaml.Marshal(rules)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(r.filepath, data); err != nil {
		return err
	}
	r.lastWrite = sha256.Sum256(data)
	return nil
}

// WroteContent reports whether data is exactly what Save last wrote.
func (r *YAMLAutomationRepository) WroteContent(data []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sha256.Sum256(data) == r.lastWrite
}

// writeFileAtomic writes to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
