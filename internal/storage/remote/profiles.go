package remote

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, avatarurl, createdat FROM profiles WHERE user_id = $1 ORDER BY createdat`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	var result []models.Profile
	for rows.Next() {
		var row profileRow
		row.UserID = userID
		if err := rows.Scan(&row.ID, &row.Name, &row.AvatarURL, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, profileFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateProfile(ctx context.Context, name string) (*models.Profile, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	p := models.Profile{ID: models.NewID(), Name: name, CreatedAt: models.NowMillis()}
	row := profileToRow(userID, p)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, name, avatarurl, createdat) VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.UserID, row.Name, row.AvatarURL, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p models.Profile) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	row := profileToRow(userID, p)
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET name = $1, avatarurl = $2 WHERE id = $3 AND user_id = $4`,
		row.Name, row.AvatarURL, row.ID, row.UserID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return requireAffected(res)
}

// DeleteProfile removes the profile row and its avatar objects. Cards that
// referenced the profile keep their dangling reference; readers resolve it
// to the default profile.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return s.blobs.DeletePrefix(ctx, avatarPrefix(id))
}

// SaveProfileAvatar stores the avatar in the blob bucket and records its
// key on the profile row. A profile has at most one avatar, so any prior
// object is purged first.
func (s *Store) SaveProfileAvatar(ctx context.Context, profileID, name, contentType string, blob []byte) (string, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return "", err
	}

	if err := s.blobs.DeletePrefix(ctx, avatarPrefix(profileID)); err != nil {
		return "", err
	}
	key := avatarPrefix(profileID) + name
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.blobs.Put(ctx, key, name, contentType, blob); err != nil {
		return "", err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET avatarurl = $1 WHERE id = $2 AND user_id = $3`,
		key, profileID, userID); err != nil {
		return "", fmt.Errorf("failed to record avatar: %w", err)
	}
	return key, nil
}

func (s *Store) DeleteProfileAvatar(ctx context.Context, profileID string) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if err := s.blobs.DeletePrefix(ctx, avatarPrefix(profileID)); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET avatarurl = '' WHERE id = $1 AND user_id = $2`,
		profileID, userID); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	return nil
}

func (s *Store) ListRenewalProviders(ctx context.Context) ([]models.RenewalProvider, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, url, searchinstructions, createdat
		FROM renewalproviders WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select renewal providers: %w", err)
	}
	defer rows.Close()

	var result []models.RenewalProvider
	for rows.Next() {
		var row providerRow
		row.UserID = userID
		if err := rows.Scan(&row.ID, &row.Name, &row.URL, &row.SearchInstructions, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, providerFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateRenewalProvider(ctx context.Context, name, url, searchInstructions string) (*models.RenewalProvider, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	p := models.RenewalProvider{
		ID: models.NewID(), Name: name, URL: url,
		SearchInstructions: searchInstructions, CreatedAt: models.NowMillis(),
	}
	row := providerToRow(userID, p)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO renewalproviders (id, user_id, name, url, searchinstructions, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		row.ID, row.UserID, row.Name, row.URL, row.SearchInstructions, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert renewal provider: %w", err)
	}
	return &p, nil
}

func (s *Store) DeleteRenewalProvider(ctx context.Context, id string) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM renewalproviders WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to delete renewal provider: %w", err)
	}
	return nil
}
