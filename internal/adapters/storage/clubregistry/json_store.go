package clubregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anklebreaker/internal/domain/club"
)

// registryFileName is the root-level metadata file, outside any session.
const registryFileName = "metadata.json"

// JSONStore implements Store on a single JSON file under the sessions root.
// It keeps an in-memory cache that is refreshed from every mutation, never
// updated in place.
type JSONStore struct {
	path   string
	cache  []string
	loaded bool
}

type registryRecord struct {
	Clubs []string `json:"clubs"`
}

// NewJSONStore builds a registry store rooted at the sessions directory.
func NewJSONStore(root string) *JSONStore {
	return &JSONStore{path: filepath.Join(root, registryFileName)}
}

// List returns the registered club names.
// POST: A missing registry file is seeded with the default club; the result
// is sorted and deduplicated.
func (st *JSONStore) List(_ context.Context) ([]string, error) {
	if err := st.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]string, len(st.cache))
	copy(out, st.cache)
	return out, nil
}

// Add registers a new club name.
// PRE: name passes club.Validate.
// POST: The registry stays deduplicated; adding an existing name fails with
// club.ErrAlreadyExists.
func (st *JSONStore) Add(_ context.Context, name string) error {
	if err := club.Validate(name); err != nil {
		return err
	}
	if err := st.ensureLoaded(); err != nil {
		return err
	}
	for _, existing := range st.cache {
		if club.Equal(existing, name) {
			return club.ErrAlreadyExists
		}
	}
	return st.save(append(st.cache, club.Normalize(name)))
}

// Remove unregisters a club name.
func (st *JSONStore) Remove(_ context.Context, name string) error {
	if err := st.ensureLoaded(); err != nil {
		return err
	}
	kept := st.cache[:0:0]
	found := false
	for _, existing := range st.cache {
		if club.Equal(existing, name) {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return club.ErrNotFound
	}
	return st.save(kept)
}

// Rename replaces one club name with another.
func (st *JSONStore) Rename(_ context.Context, oldName, newName string) error {
	if err := club.Validate(newName); err != nil {
		return err
	}
	if err := st.ensureLoaded(); err != nil {
		return err
	}
	found := false
	next := make([]string, 0, len(st.cache))
	for _, existing := range st.cache {
		switch {
		case club.Equal(existing, oldName):
			found = true
			next = append(next, club.Normalize(newName))
		case club.Equal(existing, newName):
			return club.ErrAlreadyExists
		default:
			next = append(next, existing)
		}
	}
	if !found {
		return club.ErrNotFound
	}
	return st.save(next)
}

// ensureLoaded reads the registry file into the cache, seeding it with the
// default club on first run.
func (st *JSONStore) ensureLoaded() error {
	if st.loaded {
		return nil
	}
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return st.save([]string{club.DefaultClub})
	}
	if err != nil {
		return fmt.Errorf("failed to read club registry: %w", err)
	}
	var rec registryRecord
	if uerr := json.Unmarshal(data, &rec); uerr != nil {
		return fmt.Errorf("failed to decode club registry: %w", uerr)
	}
	st.cache = dedupe(rec.Clubs)
	st.loaded = true
	return nil
}

// save persists the given names and refreshes the cache from them.
func (st *JSONStore) save(names []string) error {
	names = dedupe(names)
	data, err := json.MarshalIndent(registryRecord{Clubs: names}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode club registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("failed to create sessions root: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write club registry: %w", err)
	}
	st.cache = names
	st.loaded = true
	return nil
}

// dedupe normalizes, deduplicates case-insensitively, and sorts club names.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		normalized := club.Normalize(n)
		key := strings.ToLower(normalized)
		if normalized == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
