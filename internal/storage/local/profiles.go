package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/models"
)

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, avatar_url, created_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	var result []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateProfile(ctx context.Context, name string) (*models.Profile, error) {
	p := &models.Profile{
		ID:        models.NewID(),
		Name:      strings.TrimSpace(name),
		CreatedAt: models.NowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, avatar_url, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.AvatarURL, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return p, nil
}

// UpdateProfile renames a profile and updates its avatar URL, preserving id
// and created_at. Missing profiles report common.ErrNotFound.
func (s *Store) UpdateProfile(ctx context.Context, p models.Profile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET name = ?, avatar_url = ? WHERE id = ?`,
		strings.TrimSpace(p.Name), p.AvatarURL, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteProfile removes the profile only. Cards referencing it keep their
// dangling profile id; readers degrade the reference to the Personal
// grouping.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *Store) ListRenewalProviders(ctx context.Context) ([]models.RenewalProvider, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, url, search_instructions, created_at FROM renewal_providers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select renewal providers: %w", err)
	}
	defer rows.Close()

	var result []models.RenewalProvider
	for rows.Next() {
		var p models.RenewalProvider
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.SearchInstructions, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateRenewalProvider(ctx context.Context, name, url, searchInstructions string) (*models.RenewalProvider, error) {
	p := &models.RenewalProvider{
		ID:                 models.NewID(),
		Name:               strings.TrimSpace(name),
		URL:                strings.TrimSpace(url),
		SearchInstructions: strings.TrimSpace(searchInstructions),
		CreatedAt:          models.NowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renewal_providers (id, name, url, search_instructions, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.URL, p.SearchInstructions, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert renewal provider: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteRenewalProvider(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM renewal_providers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete renewal provider: %w", err)
	}
	return nil
}
