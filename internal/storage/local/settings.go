package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

const settingsKey = "app"

// GetSettings returns the singleton settings row, or the defaults when the
// row was never written (lazy creation happens on first save).
func (s *Store) GetSettings(ctx context.Context) (models.AppSettings, error) {
	var out models.AppSettings
	var notifications int
	var defaultDays string

	err := s.db.QueryRowContext(ctx,
		`SELECT reminder_days, notifications_enabled, default_reminder_days
		 FROM settings WHERE key = ?`, settingsKey).
		Scan(&out.ReminderDays, &notifications, &defaultDays)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to select settings: %w", err)
	}

	out.NotificationsEnabled = notifications != 0
	if out.DefaultReminderDays, err = decodeReminderDays(defaultDays); err != nil {
		return models.AppSettings{}, err
	}
	return out, nil
}

func (s *Store) SaveSettings(ctx context.Context, in models.AppSettings) error {
	defaultDays, err := encodeJSON(in.DefaultReminderDays, len(in.DefaultReminderDays) == 0)
	if err != nil {
		return err
	}

	notifications := 0
	if in.NotificationsEnabled {
		notifications = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, reminder_days, notifications_enabled, default_reminder_days)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			reminder_days = excluded.reminder_days,
			notifications_enabled = excluded.notifications_enabled,
			default_reminder_days = excluded.default_reminder_days`,
		settingsKey, in.ReminderDays, notifications, defaultDays)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
