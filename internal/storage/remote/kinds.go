package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// The kind vocabulary is shared across owners; listing it still requires a
// session so an unauthenticated client cannot probe the service.

func (s *Store) ListCardKinds(ctx context.Context) ([]string, error) {
	if _, err := s.owner(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cardkinds ORDER BY name`)
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

func (s *Store) CreateCardKind(ctx context.Context, name string) error {
	if _, err := s.owner(ctx); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cardkinds (name, createdat) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		name, models.NowMillis()); err != nil {
		return fmt.Errorf("failed to insert card kind: %w", err)
	}
	return nil
}

// DeleteCardKind removes the vocabulary entry only; cards already tagged
// with the kind keep their value.
func (s *Store) DeleteCardKind(ctx context.Context, name string) error {
	if _, err := s.owner(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM cardkinds WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete card kind: %w", err)
	}
	return nil
}
