package rules

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCatalogNotFound is returned when no catalog has the requested name.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogExists is returned when adding a catalog whose name is taken.
	ErrCatalogExists = errors.New("catalog already exists")
)

// CatalogStore manages persistence of custom catalogs.
type CatalogStore interface {
	// Add a new catalog
	Add(c *Catalog) (*StoredCatalog, error)

	// Get a catalog by name
	Get(name string) (*StoredCatalog, error)

	// List all active catalogs, ordered by creation time
	ListActive() ([]*StoredCatalog, error)

	// Update an existing catalog, matched by name
	Update(c *Catalog) (*StoredCatalog, error)

	// Delete a catalog by name
	Delete(name string) error
}

// InMemoryCatalogStore implements CatalogStore using an in-memory map.
// Thread-safe with RWMutex.
type InMemoryCatalogStore struct {
	catalogs map[string]*StoredCatalog
	mu       sync.RWMutex
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		catalogs: make(map[string]*StoredCatalog),
	}
}

// Add stores a new catalog under a fresh ID. Names are unique.
func (s *InMemoryCatalogStore) Add(c *Catalog) (*StoredCatalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.catalogs[c.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrCatalogExists, c.Name)
	}

	now := time.Now()
	sc := &StoredCatalog{
		ID:        uuid.NewString(),
		Catalog:   c,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.catalogs[c.Name] = sc
	return sc, nil
}

// Get retrieves a catalog by name
func (s *InMemoryCatalogStore) Get(name string) (*StoredCatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, exists := s.catalogs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}
	return sc, nil
}

// ListActive returns active catalogs, oldest first
func (s *InMemoryCatalogStore) ListActive() ([]*StoredCatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*StoredCatalog, 0, len(s.catalogs))
	for _, sc := range s.catalogs {
		if sc.Active {
			active = append(active, sc)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].Catalog.Name < active[j].Catalog.Name
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active, nil
}

// Update replaces a catalog's definition, preserving ID and CreatedAt
func (s *InMemoryCatalogStore) Update(c *Catalog) (*StoredCatalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.catalogs[c.Name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, c.Name)
	}

	sc := &StoredCatalog{
		ID:        existing.ID,
		Catalog:   c,
		Active:    existing.Active,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}
	s.catalogs[c.Name] = sc
	return sc, nil
}

// Delete removes a catalog from the store
func (s *InMemoryCatalogStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.catalogs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}

	delete(s.catalogs, name)
	return nil
}
