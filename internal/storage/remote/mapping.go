package remote

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// The wire schema uses flattened lowercase column names (expirydate,
// renewurl, ...) while the in-memory model uses Go naming. Each entity gets
// exactly one bidirectional mapping here; nothing else in the engine is
// allowed to rename fields ad hoc. Keep these in sync with the migration
// scripts and the round-trip tests.

type cardRow struct {
	ID                string
	UserID            string
	Kind              string
	Title             string
	Issuer            string
	ExpiryDate        string // column: expirydate
	RenewURL          string // column: renewurl
	ProfileID         string // column: profileid
	RenewalProviderID string // column: renewalproviderid
	Notes             string
	ReminderDays      string // column: reminderdays, JSON array
	RenewalSteps      string // column: renewalsteps, JSON array
	CreatedAt         int64  // column: createdat
	UpdatedAt         int64  // column: updatedat
}

func cardToRow(userID string, c models.CardRecord) (cardRow, error) {
	row := cardRow{
		ID:                c.ID,
		UserID:            userID,
		Kind:              c.Kind,
		Title:             c.Title,
		Issuer:            c.Issuer,
		ExpiryDate:        c.ExpiryDate,
		RenewURL:          c.RenewURL,
		ProfileID:         c.ProfileID,
		RenewalProviderID: c.RenewalProviderID,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}

	if len(c.ReminderDays) > 0 {
		b, err := json.Marshal(c.ReminderDays)
		if err != nil {
			return cardRow{}, fmt.Errorf("encoding reminder days: %w", err)
		}
		row.ReminderDays = string(b)
	}
	if len(c.RenewalSteps) > 0 {
		b, err := json.Marshal(c.RenewalSteps)
		if err != nil {
			return cardRow{}, fmt.Errorf("encoding renewal steps: %w", err)
		}
		row.RenewalSteps = string(b)
	}
	return row, nil
}

func cardFromRow(row cardRow) (models.CardRecord, error) {
	c := models.CardRecord{
		ID:                row.ID,
		Kind:              row.Kind,
		Title:             row.Title,
		Issuer:            row.Issuer,
		ExpiryDate:        row.ExpiryDate,
		RenewURL:          row.RenewURL,
		ProfileID:         row.ProfileID,
		RenewalProviderID: row.RenewalProviderID,
		Notes:             row.Notes,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}

	if row.ReminderDays != "" {
		if err := json.Unmarshal([]byte(row.ReminderDays), &c.ReminderDays); err != nil {
			return models.CardRecord{}, fmt.Errorf("decoding reminder days: %w", err)
		}
	}
	if row.RenewalSteps != "" {
		if err := json.Unmarshal([]byte(row.RenewalSteps), &c.RenewalSteps); err != nil {
			return models.CardRecord{}, fmt.Errorf("decoding renewal steps: %w", err)
		}
	}
	return c, nil
}

type profileRow struct {
	ID        string
	UserID    string
	Name      string
	AvatarURL string // column: avatarurl
	CreatedAt int64  // column: createdat
}

func profileToRow(userID string, p models.Profile) profileRow {
	return profileRow{ID: p.ID, UserID: userID, Name: p.Name, AvatarURL: p.AvatarURL, CreatedAt: p.CreatedAt}
}

func profileFromRow(row profileRow) models.Profile {
	return models.Profile{ID: row.ID, Name: row.Name, AvatarURL: row.AvatarURL, CreatedAt: row.CreatedAt}
}

type providerRow struct {
	ID                 string
	UserID             string
	Name               string
	URL                string
	SearchInstructions string // column: searchinstructions
	CreatedAt          int64  // column: createdat
}

func providerToRow(userID string, p models.RenewalProvider) providerRow {
	return providerRow{
		ID: p.ID, UserID: userID, Name: p.Name, URL: p.URL,
		SearchInstructions: p.SearchInstructions, CreatedAt: p.CreatedAt,
	}
}

func providerFromRow(row providerRow) models.RenewalProvider {
	return models.RenewalProvider{
		ID: row.ID, Name: row.Name, URL: row.URL,
		SearchInstructions: row.SearchInstructions, CreatedAt: row.CreatedAt,
	}
}

type settingsRow struct {
	UserID               string
	ReminderDays         int    // column: reminderdays
	NotificationsEnabled bool   // column: notificationsenabled
	DefaultReminderDays  string // column: defaultreminderdays, JSON array
}

func settingsToRow(userID string, s models.AppSettings) (settingsRow, error) {
	row := settingsRow{
		UserID:               userID,
		ReminderDays:         s.ReminderDays,
		NotificationsEnabled: s.NotificationsEnabled,
	}
	if len(s.DefaultReminderDays) > 0 {
		b, err := json.Marshal(s.DefaultReminderDays)
		if err != nil {
			return settingsRow{}, fmt.Errorf("encoding default reminder days: %w", err)
		}
		row.DefaultReminderDays = string(b)
	}
	return row, nil
}

func settingsFromRow(row settingsRow) (models.AppSettings, error) {
	s := models.AppSettings{
		ReminderDays:         row.ReminderDays,
		NotificationsEnabled: row.NotificationsEnabled,
	}
	if row.DefaultReminderDays != "" {
		if err := json.Unmarshal([]byte(row.DefaultReminderDays), &s.DefaultReminderDays); err != nil {
			return models.AppSettings{}, fmt.Errorf("decoding default reminder days: %w", err)
		}
	}
	return s, nil
}
