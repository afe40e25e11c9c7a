package storage

import (
	"context"
	"fmt"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

var _ ports.PreferenceStore = (*Store)(nil)

// ReplacePreferences atomically swaps a user's stored preferences for the
// given set, mirroring the "delete then insert" semantics of the API.
func (s *Store) ReplacePreferences(ctx context.Context, userID int64, prefs domain.Preferences) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	for _, sourceID := range prefs.SourceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_preferences (user_id, source_id) VALUES ($1, $2)`,
			userID, sourceID); err != nil {
			return fmt.Errorf("insert source preference: %w", err)
		}
	}

	for _, categoryID := range prefs.CategoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_preferences (user_id, category_id) VALUES ($1, $2)`,
			userID, categoryID); err != nil {
			return fmt.Errorf("insert category preference: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}

	return nil
}

// PreferencesByUser returns the user's opted-in source and category ids.
func (s *Store) PreferencesByUser(ctx context.Context, userID int64) (domain.Preferences, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source_id, category_id FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var prefs domain.Preferences
	for rows.Next() {
		var sourceID, categoryID *int64
		if err := rows.Scan(&sourceID, &categoryID); err != nil {
			return domain.Preferences{}, fmt.Errorf("scan preference: %w", err)
		}
		if sourceID != nil {
			prefs.SourceIDs = append(prefs.SourceIDs, *sourceID)
		}
		if categoryID != nil {
			prefs.CategoryIDs = append(prefs.CategoryIDs, *categoryID)
		}
	}

	return prefs, rows.Err()
}
