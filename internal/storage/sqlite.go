// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"mcp-max-protein/internal/models"
)

type SQLiteStorage struct {
	db       *sql.DB
	readOnly bool
}

// NewSQLiteStorage opens (or creates) a writable catalog database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// OpenReadOnly opens an existing catalog database that must already have
// been populated by an import. Writes through it fail.
func OpenReadOnly(dbPath string) (*SQLiteStorage, error) {
	// Escape the path so '#', '?' and '%' in file names are not read as
	// URI syntax.
	dsn := "file:" + (&url.URL{Path: dbPath}).EscapedPath() + "?mode=ro"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database read-only: %w", err)
	}

	return &SQLiteStorage{db: db, readOnly: true}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        description TEXT NOT NULL CHECK (description <> ''),
        serving_label TEXT NOT NULL CHECK (serving_label <> ''),
        serving_grams INTEGER NOT NULL CHECK (serving_grams >= 0),
        energy_kcal INTEGER NOT NULL CHECK (energy_kcal >= 0),
        protein_grams INTEGER NOT NULL CHECK (protein_grams >= 0)
    );

    CREATE INDEX IF NOT EXISTS idx_foods_energy_kcal ON foods(energy_kcal);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ReplaceCatalog swaps the stored catalog for the given one in a single
// transaction. Row ids follow catalog order.
func (s *SQLiteStorage) ReplaceCatalog(ctx context.Context, catalog models.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods`); err != nil {
		return fmt.Errorf("failed to clear foods: %w", err)
	}
	// Restart ids so a re-import keeps file order from 1.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'foods'`); err != nil {
		return fmt.Errorf("failed to reset food ids: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO foods (description, serving_label, serving_grams, energy_kcal, protein_grams)
        VALUES (?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, food := range catalog {
		_, err = stmt.ExecContext(ctx,
			food.Description, food.ServingLabel, food.ServingGrams,
			food.EnergyKcal, food.ProteinGrams)
		if err != nil {
			return fmt.Errorf("failed to insert food %q: %w", food.Description, err)
		}
	}

	return tx.Commit()
}

// LoadCatalog returns every stored food in import order. Rows are validated
// again on the way out.
func (s *SQLiteStorage) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	query := `
        SELECT description, serving_label, serving_grams, energy_kcal, protein_grams
        FROM foods
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	catalog := models.Catalog{}
	for rows.Next() {
		var (
			description, servingLabel        string
			servingGrams, kcal, proteinGrams int
		)
		if err := rows.Scan(&description, &servingLabel, &servingGrams, &kcal, &proteinGrams); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}

		food, err := models.NewFoodItem(description, servingLabel, servingGrams, kcal, proteinGrams)
		if err != nil {
			return nil, fmt.Errorf("stored food %q: %w", description, err)
		}
		catalog = append(catalog, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate foods: %w", err)
	}

	return catalog, nil
}

// Count returns the number of stored foods.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}

// ReadOnly reports whether the storage was opened with OpenReadOnly.
func (s *SQLiteStorage) ReadOnly() bool {
	return s.readOnly
}
