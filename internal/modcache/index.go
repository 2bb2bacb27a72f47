package modcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const indexVersion = 1

// Index is the persisted cache-key registry, written next to the installed
// artifacts. It lets repeat activations skip the name-based directory scan;
// the scan remains the migration path for trees created before the index
// existed.
type Index struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Entry records one imported artifact.
type Entry struct {
	Key        string    `json:"key"`
	Path       string    `json:"path"`
	Source     string    `json:"source,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// LoadIndex reads the index file, returning an empty structure when the file
// is missing or unreadable as JSON.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newIndex(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		// A corrupt index is rebuilt from the directory scan.
		return newIndex(), nil
	}

	idx.normalize()
	return &idx, nil
}

// SaveIndex writes the index atomically, creating the containing directory if
// needed.
func SaveIndex(path string, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure index dir: %w", err)
	}

	if idx == nil {
		idx = newIndex()
	}
	idx.normalize()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp index: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}

	return nil
}

// Get returns the entry for a cache key when present.
func (idx *Index) Get(key string) (Entry, bool) {
	if idx == nil || idx.Entries == nil {
		return Entry{}, false
	}
	entry, ok := idx.Entries[key]
	return entry, ok
}

// Set stores an entry under its cache key.
func (idx *Index) Set(entry Entry) {
	if idx == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	idx.Entries[entry.Key] = entry
}

// Delete removes the entry for a cache key.
func (idx *Index) Delete(key string) {
	if idx == nil || idx.Entries == nil {
		return
	}
	delete(idx.Entries, key)
}

func (idx *Index) normalize() {
	if idx.Version == 0 {
		idx.Version = indexVersion
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
}

func newIndex() *Index {
	return &Index{
		Version: indexVersion,
		Entries: map[string]Entry{},
	}
}
