package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// ListCardKinds returns the vocabulary names sorted alphabetically. The
// seed set is installed by the initial migration, so this is non-empty even
// on a fresh database.
func (s *Store) ListCardKinds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM card_kinds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select card kinds: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateCardKind adds a vocabulary entry; the trimmed name is the key, so
// repeated creates are idempotent. Empty names are ignored.
func (s *Store) CreateCardKind(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO card_kinds (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		trimmed, models.NowMillis())
	if err != nil {
		return fmt.Errorf("failed to insert card kind: %w", err)
	}
	return nil
}

// DeleteCardKind removes the vocabulary entry without touching cards that
// reference the deleted name (soft reference).
func (s *Store) DeleteCardKind(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM card_kinds WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete card kind: %w", err)
	}
	return nil
}
