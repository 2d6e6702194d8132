// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/example/advgen/internal/ports/secondary"
)

// DictionaryRepository implements secondary.DictionaryRepository with SQLite.
type DictionaryRepository struct {
	db *sql.DB
}

// NewDictionaryRepository creates a new SQLite dictionary repository.
func NewDictionaryRepository(db *sql.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

// Load returns the token -> id mapping for a domain and kind.
func (r *DictionaryRepository) Load(ctx context.Context, domain, kind string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT token, token_id FROM dictionary_entries WHERE domain = ? AND kind = ?",
		domain, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	defer rows.Close()

	mapping := map[string]int{}
	for rows.Next() {
		var token string
		var id int
		if err := rows.Scan(&token, &id); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary entry: %w", err)
		}
		mapping[token] = id
	}

	return mapping, rows.Err()
}

// Replace drops the existing dictionary for (domain, kind) and stores the
// given tokens with ids assigned by sorted token order, atomically.
func (r *DictionaryRepository) Replace(ctx context.Context, domain, kind string, tokens []string) error {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin dictionary replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM dictionary_entries WHERE domain = ? AND kind = ?",
		domain, kind,
	); err != nil {
		return fmt.Errorf("failed to clear dictionary: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO dictionary_entries (domain, kind, token, token_id) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare dictionary insert: %w", err)
	}
	defer stmt.Close()

	for i, token := range sorted {
		if _, err := stmt.ExecContext(ctx, domain, kind, token, i); err != nil {
			return fmt.Errorf("failed to insert dictionary token %q: %w", token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dictionary replace: %w", err)
	}

	return nil
}

// Ensure DictionaryRepository implements the interface
var _ secondary.DictionaryRepository = (*DictionaryRepository)(nil)
