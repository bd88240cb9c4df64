package rules

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresCatalogStore implements CatalogStore backed by PostgreSQL. The
// catalog definition is stored as JSONB.
type PostgresCatalogStore struct {
	db *sql.DB
}

// NewPostgresCatalogStore creates a new PostgreSQL-backed CatalogStore
func NewPostgresCatalogStore(db *sql.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

// Add inserts a new catalog into the database
func (s *PostgresCatalogStore) Add(c *Catalog) (*StoredCatalog, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM catalogs WHERE name = $1)
	`, c.Name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalog existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrCatalogExists, c.Name)
	}

	definition, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}

	now := time.Now().UTC()
	sc := &StoredCatalog{
		ID:        uuid.NewString(),
		Catalog:   c,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Exec(`
		INSERT INTO catalogs (id, name, definition, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sc.ID, c.Name, definition, sc.Active, sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert catalog: %w", err)
	}

	return sc, nil
}

// Get retrieves a catalog by name
func (s *PostgresCatalogStore) Get(name string) (*StoredCatalog, error) {
	row := s.db.QueryRow(`
		SELECT id, definition, active, created_at, updated_at
		FROM catalogs
		WHERE name = $1
	`, name)

	sc, err := scanCatalog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	return sc, nil
}

// ListActive returns all active catalogs
func (s *PostgresCatalogStore) ListActive() ([]*StoredCatalog, error) {
	rows, err := s.db.Query(`
		SELECT id, definition, active, created_at, updated_at
		FROM catalogs
		WHERE active = true
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active catalogs: %w", err)
	}
	defer rows.Close()

	var list []*StoredCatalog
	for rows.Next() {
		sc, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog: %w", err)
		}
		list = append(list, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalogs: %w", err)
	}

	return list, nil
}

// Update replaces the definition of an existing catalog
func (s *PostgresCatalogStore) Update(c *Catalog) (*StoredCatalog, error) {
	existing, err := s.Get(c.Name)
	if err != nil {
		return nil, err
	}

	definition, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}

	updatedAt := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE catalogs
		SET definition = $1, updated_at = $2
		WHERE name = $3
	`, definition, updatedAt, c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to update catalog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, c.Name)
	}

	return &StoredCatalog{
		ID:        existing.ID,
		Catalog:   c,
		Active:    existing.Active,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Delete removes a catalog from the database
func (s *PostgresCatalogStore) Delete(name string) error {
	result, err := s.db.Exec(`
		DELETE FROM catalogs
		WHERE name = $1
	`, name)
	if err != nil {
		return fmt.Errorf("failed to delete catalog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalog(row rowScanner) (*StoredCatalog, error) {
	var (
		sc         StoredCatalog
		definition []byte
	)
	if err := row.Scan(&sc.ID, &definition, &sc.Active, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return nil, err
	}

	var c Catalog
	if err := json.Unmarshal(definition, &c); err != nil {
		return nil, fmt.Errorf("invalid catalog definition %s: %w", sc.ID, err)
	}
	sc.Catalog = &c
	return &sc, nil
}
