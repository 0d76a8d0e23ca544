package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/dbx"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/storage"
)

// encodeJSON stores an empty string for empty collections so the columns
// stay readable in plain SQL tools.
func encodeJSON(v any, empty bool) (string, error) {
	if empty {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding json column: %w", err)
	}
	return string(b), nil
}

func decodeReminderDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, fmt.Errorf("decoding reminder days: %w", err)
	}
	return days, nil
}

func decodeRenewalSteps(s string) ([]models.RenewalStep, error) {
	if s == "" {
		return nil, nil
	}
	var steps []models.RenewalStep
	if err := json.Unmarshal([]byte(s), &steps); err != nil {
		return nil, fmt.Errorf("decoding renewal steps: %w", err)
	}
	return steps, nil
}

const cardColumns = `id, kind, title, issuer, expiry_date, renew_url, profile_id,
	renewal_provider_id, notes, reminder_days, renewal_steps, created_at, updated_at`

func scanCard(scan func(...any) error) (*models.CardRecord, error) {
	var c models.CardRecord
	var reminderDays, renewalSteps string
	err := scan(&c.ID, &c.Kind, &c.Title, &c.Issuer, &c.ExpiryDate, &c.RenewURL,
		&c.ProfileID, &c.RenewalProviderID, &c.Notes, &reminderDays, &renewalSteps,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.ReminderDays, err = decodeReminderDays(reminderDays); err != nil {
		return nil, err
	}
	if c.RenewalSteps, err = decodeRenewalSteps(renewalSteps); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCards returns all card records ordered by the expiry-date index.
// Attachments are not resolved here; use GetCard for the full shape.
func (s *Store) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY expiry_date`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.CardRecord
	for rows.Next() {
		c, err := scanCard(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCard returns the record plus its resolved attachment set, or
// common.ErrNotFound. When no attachments exist, the legacy single-image
// slot is normalized into a one-element attachment list so downstream code
// only ever handles one shape. The record, attachment and legacy-image
// reads share one transaction, so a concurrent delete can never yield a
// record paired with half-removed blobs.
func (s *Store) GetCard(ctx context.Context, id string) (*models.CardWithAttachments, error) {
	var result *models.CardWithAttachments

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
		c, err := scanCard(row.Scan)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to select card: %w", err)
		}

		attachments, err := s.listAttachments(ctx, tx, id)
		if err != nil {
			return err
		}

		legacy, err := s.legacyImage(ctx, tx, id)
		if err != nil {
			return err
		}

		result = &models.CardWithAttachments{CardRecord: *c, Attachments: attachments}
		if len(attachments) == 0 && legacy != nil {
			result.Attachments = []models.CardAttachment{{
				ID:          id,
				Name:        "card-image",
				ContentType: "application/octet-stream",
				Blob:        legacy,
			}}
		}

		result.ImageBlob = legacy
		if result.ImageBlob == nil {
			for _, a := range attachments {
				if strings.HasPrefix(a.ContentType, "image/") {
					result.ImageBlob = a.Blob
					break
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) listAttachments(ctx context.Context, db dbx.DBTX, cardID string) ([]models.CardAttachment, error) {
	query := `SELECT attachment_id, name, content_type, blob
		FROM card_attachments WHERE card_id = ? ORDER BY rowid`
	rows, err := db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []models.CardAttachment
	for rows.Next() {
		var a models.CardAttachment
		if err := rows.Scan(&a.ID, &a.Name, &a.ContentType, &a.Blob); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) legacyImage(ctx context.Context, db dbx.DBTX, cardID string) ([]byte, error) {
	var blob []byte
	err := db.QueryRowContext(ctx, `SELECT blob FROM card_images WHERE card_id = ?`, cardID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select legacy image: %w", err)
	}
	return blob, nil
}

// UpsertCard writes or overwrites the record. A non-nil ImageBlob goes to
// the legacy slot; when ReplaceAttachments is set the previous attachment
// set is deleted wholesale before the new one is written. Everything runs
// in one transaction so a failed write never leaves orphans behind.
func (s *Store) UpsertCard(ctx context.Context, in storage.UpsertCardInput) error {
	reminderDays, err := encodeJSON(in.Card.ReminderDays, len(in.Card.ReminderDays) == 0)
	if err != nil {
		return err
	}
	renewalSteps, err := encodeJSON(in.Card.RenewalSteps, len(in.Card.RenewalSteps) == 0)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO cards (` + cardColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				title = excluded.title,
				issuer = excluded.issuer,
				expiry_date = excluded.expiry_date,
				renew_url = excluded.renew_url,
				profile_id = excluded.profile_id,
				renewal_provider_id = excluded.renewal_provider_id,
				notes = excluded.notes,
				reminder_days = excluded.reminder_days,
				renewal_steps = excluded.renewal_steps,
				updated_at = excluded.updated_at`
		_, err := tx.ExecContext(ctx, query,
			in.Card.ID, in.Card.Kind, in.Card.Title, in.Card.Issuer, in.Card.ExpiryDate,
			in.Card.RenewURL, in.Card.ProfileID, in.Card.RenewalProviderID, in.Card.Notes,
			reminderDays, renewalSteps, in.Card.CreatedAt, in.Card.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert card: %w", err)
		}

		if in.ImageBlob != nil {
			_, err = tx.ExecContext(ctx, `INSERT INTO card_images (card_id, blob, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(card_id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
				in.Card.ID, in.ImageBlob, models.NowMillis())
			if err != nil {
				return fmt.Errorf("failed to upsert legacy image: %w", err)
			}
		}

		if in.ReplaceAttachments {
			if _, err := tx.ExecContext(ctx, `DELETE FROM card_attachments WHERE card_id = ?`, in.Card.ID); err != nil {
				return fmt.Errorf("failed to clear attachments: %w", err)
			}
			now := models.NowMillis()
			for _, a := range in.Attachments {
				key := in.Card.ID + ":" + a.ID
				_, err := tx.ExecContext(ctx, `INSERT INTO card_attachments
					(key, card_id, attachment_id, name, content_type, blob, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					key, in.Card.ID, a.ID, a.Name, a.ContentType, a.Blob, now)
				if err != nil {
					return fmt.Errorf("failed to insert attachment %s: %w", a.ID, err)
				}
			}
		}

		return nil
	})
}

// DeleteCard removes the record, its legacy image slot and every attachment
// row owned by the record id. Atomic: either all three partitions are
// cleaned or the delete reports failure.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_attachments WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete attachments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_images WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete legacy image: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return nil
	})
}
