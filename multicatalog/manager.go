// Package multicatalog serves several rule catalogs side by side: the
// built-ins plus any custom catalogs kept in a rules.CatalogStore. Each
// catalog gets its own decision.Engine; all of them share one compiled
// program cache.
package multicatalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liamcoop/neurocds/catalog"
	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/internal/logger"
	"github.com/liamcoop/neurocds/rules"
)

var (
	// ErrBuiltinCatalog is returned when a caller tries to create, replace
	// or delete a built-in catalog.
	ErrBuiltinCatalog = errors.New("built-in catalogs are read-only")
	// ErrInvalidCatalog wraps validation and compile failures.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// CatalogEngine wraps a decision.Engine with catalog metadata
type CatalogEngine struct {
	Name      string
	Builtin   bool
	Engine    *decision.Engine
	UpdatedAt time.Time
}

// Manager manages the engines for all catalogs
type Manager struct {
	engines map[string]*CatalogEngine
	store   rules.CatalogStore
	cache   rules.CatalogCache
	rules   *rules.Engine
	opts    []decision.Option
	mu      sync.RWMutex
}

// Config wires a Manager to its storage. A nil Store keeps custom catalogs
// in memory; a nil Cache uses rules.DefaultCacheConfig; a non-positive
// ProgramCacheSize uses rules.DefaultProgramCacheSize.
type Config struct {
	Store            rules.CatalogStore
	Cache            rules.CatalogCache
	ProgramCacheSize int
}

// NewManager creates a manager. The options are applied to every engine
// the manager builds.
func NewManager(cfg Config, opts ...decision.Option) (*Manager, error) {
	if cfg.Store == nil {
		cfg.Store = rules.NewInMemoryCatalogStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = rules.NewInMemoryCatalogCache(rules.DefaultCacheConfig())
	}
	if cfg.ProgramCacheSize <= 0 {
		cfg.ProgramCacheSize = rules.DefaultProgramCacheSize
	}

	shared, err := rules.NewEngineWithCacheSize(features.Schema(), cfg.ProgramCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rules engine: %w", err)
	}

	all := make([]decision.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, decision.WithRulesEngine(shared))

	return &Manager{
		engines: make(map[string]*CatalogEngine),
		store:   cfg.Store,
		cache:   cfg.Cache,
		rules:   shared,
		opts:    all,
	}, nil
}

// LoadAll builds engines for the built-in catalogs and every active stored
// catalog, then replaces the current set in one step. A stored catalog
// that no longer validates or compiles is skipped and logged.
func (m *Manager) LoadAll() error {
	loaded := make(map[string]*CatalogEngine)
	now := time.Now()

	for _, name := range catalog.Names() {
		c, err := catalog.Builtin(name)
		if err != nil {
			return err
		}
		engine, err := m.build(c)
		if err != nil {
			return fmt.Errorf("failed to initialize built-in catalog %s: %w", name, err)
		}
		loaded[name] = &CatalogEngine{Name: name, Builtin: true, Engine: engine, UpdatedAt: now}
	}

	stored, err := m.storedCatalogs()
	if err != nil {
		return err
	}

	skipped := 0
	for _, sc := range stored {
		name := sc.Catalog.Name
		if _, exists := loaded[name]; exists {
			logger.Warn("stored catalog shadows a built-in, skipping", "catalog", name, "id", sc.ID)
			skipped++
			continue
		}
		engine, err := m.build(sc.Catalog)
		if err != nil {
			logger.Error("failed to initialize stored catalog", "catalog", name, "id", sc.ID, "error", err)
			skipped++
			continue
		}
		loaded[name] = &CatalogEngine{Name: name, Engine: engine, UpdatedAt: sc.UpdatedAt}
	}

	m.mu.Lock()
	m.engines = loaded
	m.mu.Unlock()

	logger.Info("catalogs loaded", "count", len(loaded), "skipped", skipped)
	return nil
}

// Create validates, compiles and stores a new custom catalog
func (m *Manager) Create(c *rules.Catalog) (*rules.StoredCatalog, error) {
	if c == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if catalog.IsBuiltin(c.Name) {
		return nil, fmt.Errorf("%w: %s", ErrBuiltinCatalog, c.Name)
	}

	engine, err := m.build(c)
	if err != nil {
		return nil, err
	}

	sc, err := m.store.Add(c)
	if err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	m.cache.Invalidate()

	m.mu.Lock()
	m.engines[c.Name] = &CatalogEngine{Name: c.Name, Engine: engine, UpdatedAt: sc.UpdatedAt}
	m.mu.Unlock()

	logger.Info("catalog created", "catalog", c.Name, "id", sc.ID)
	return sc, nil
}

// Get retrieves the engine for a catalog
func (m *Manager) Get(name string) (*decision.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ce, exists := m.engines[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", rules.ErrCatalogNotFound, name)
	}

	return ce.Engine, nil
}

// Update replaces a custom catalog's definition.
// The new engine is built before the swap, so requests in flight keep the
// old engine and the next request sees the new one.
func (m *Manager) Update(c *rules.Catalog) (*rules.StoredCatalog, error) {
	if c == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if catalog.IsBuiltin(c.Name) {
		return nil, fmt.Errorf("%w: %s", ErrBuiltinCatalog, c.Name)
	}

	engine, err := m.build(c)
	if err != nil {
		return nil, err
	}

	sc, err := m.store.Update(c)
	if err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	m.cache.Invalidate()

	m.mu.Lock()
	m.engines[c.Name] = &CatalogEngine{Name: c.Name, Engine: engine, UpdatedAt: sc.UpdatedAt}
	m.mu.Unlock()

	logger.Info("catalog updated", "catalog", c.Name, "id", sc.ID)
	return sc, nil
}

// List returns all loaded catalogs sorted by name
func (m *Manager) List() []*CatalogEngine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*CatalogEngine, 0, len(m.engines))
	for _, ce := range m.engines {
		list = append(list, ce)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Delete removes a custom catalog from the store and the manager
func (m *Manager) Delete(name string) error {
	if catalog.IsBuiltin(name) {
		return fmt.Errorf("%w: %s", ErrBuiltinCatalog, name)
	}

	if err := m.store.Delete(name); err != nil {
		return err
	}
	m.cache.Invalidate()

	m.mu.Lock()
	delete(m.engines, name)
	m.mu.Unlock()

	logger.Info("catalog deleted", "catalog", name)
	return nil
}

// CachedPrograms reports how many compiled programs the shared cache holds
func (m *Manager) CachedPrograms() int {
	return m.rules.CachedPrograms()
}

func (m *Manager) build(c *rules.Catalog) (*decision.Engine, error) {
	if err := ValidateCatalog(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	engine, err := decision.New(c, m.opts...)
	if err != nil {
		logger.CatalogCompileFailures.Add(1)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return engine, nil
}

// storedCatalogs reads the active catalog list through the cache
func (m *Manager) storedCatalogs() ([]*rules.StoredCatalog, error) {
	if cached := m.cache.Get(); cached != nil {
		return cached, nil
	}

	stored, err := m.store.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	m.cache.Set(stored)
	return stored, nil
}
