package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

var _ ports.LookupStore = (*Store)(nil)

// GetOrCreateSource returns the id for a source name, creating the row on
// first sight. Safe under concurrent runs: the insert is conflict-tolerant
// and falls back to a re-select when another run won the race.
func (s *Store) GetOrCreateSource(ctx context.Context, name string) (int64, error) {
	return s.getOrCreate(ctx, "sources", name)
}

// GetOrCreateCategory is GetOrCreateSource for category labels.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string) (int64, error) {
	return s.getOrCreate(ctx, "categories", name)
}

func (s *Store) getOrCreate(ctx context.Context, table, name string) (int64, error) {
	var id int64

	insert := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`, table)
	err := s.pool.QueryRow(ctx, insert, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert %s %q: %w", table, name, err)
	}

	// Conflict: the row already exists, possibly created by a concurrent run.
	sel := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table)
	if err := s.pool.QueryRow(ctx, sel, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("select %s %q: %w", table, name, err)
	}

	return id, nil
}

// Sources lists all known sources, used to prime in-run resolver caches.
func (s *Store) Sources(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.Name); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

// Categories lists all known categories.
func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}
