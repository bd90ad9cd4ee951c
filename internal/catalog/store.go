package catalog

import (
	"sync"
	"time"
)

// Store holds the catalog for the lifetime of the process. It is populated
// once by the initial load and read-only afterwards; user actions change
// selection state elsewhere, never the catalog itself.
type Store struct {
	mu       sync.RWMutex
	catalog  Catalog
	loaded   bool
	loadedAt time.Time
}

// NewStore returns an empty store. Until Replace is called, Snapshot yields
// an empty catalog and views render their empty states.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a freshly loaded catalog.
func (s *Store) Replace(c Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	s.loaded = true
	s.loadedAt = time.Now()
}

// Snapshot returns the current catalog. The returned value shares backing
// data with the store; callers must treat it as immutable.
func (s *Store) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Loaded reports whether the initial load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadedAt returns the completion time of the initial load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
