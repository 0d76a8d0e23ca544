package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// GetSettings returns the owner's settings row, or the defaults when the
// owner has never saved any.
func (s *Store) GetSettings(ctx context.Context) (models.AppSettings, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return models.AppSettings{}, err
	}

	var row settingsRow
	row.UserID = userID
	err = s.db.QueryRowContext(ctx,
		`SELECT reminderdays, notificationsenabled, defaultreminderdays FROM settings WHERE user_id = $1`,
		userID).Scan(&row.ReminderDays, &row.NotificationsEnabled, &row.DefaultReminderDays)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to select settings: %w", err)
	}
	return settingsFromRow(row)
}

func (s *Store) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	row, err := settingsToRow(userID, settings)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (user_id, reminderdays, notificationsenabled, defaultreminderdays)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			reminderdays = EXCLUDED.reminderdays,
			notificationsenabled = EXCLUDED.notificationsenabled,
			defaultreminderdays = EXCLUDED.defaultreminderdays`,
		row.UserID, row.ReminderDays, row.NotificationsEnabled, row.DefaultReminderDays); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
