package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/storage"
)

const cardColumns = `id, kind, title, issuer, expirydate, renewurl, profileid,
	renewalproviderid, notes, reminderdays, renewalsteps, createdat, updatedat`

func scanCardRow(userID string, scan func(...any) error) (models.CardRecord, error) {
	var row cardRow
	row.UserID = userID
	err := scan(&row.ID, &row.Kind, &row.Title, &row.Issuer, &row.ExpiryDate,
		&row.RenewURL, &row.ProfileID, &row.RenewalProviderID, &row.Notes,
		&row.ReminderDays, &row.RenewalSteps, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return models.CardRecord{}, err
	}
	return cardFromRow(row)
}

// ListCards returns the owner's cards ordered by expiry date.
func (s *Store) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY expirydate`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.CardRecord
	for rows.Next() {
		c, err := scanCardRow(userID, rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCard returns the record plus attachments downloaded from the blob
// namespace. The legacy single-image object is normalized into a
// one-element attachment list when no nested attachments exist.
func (s *Store) GetCard(ctx context.Context, id string) (*models.CardWithAttachments, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1 AND user_id = $2`, id, userID)
	c, err := scanCardRow(userID, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select card: %w", err)
	}

	attachments, err := s.downloadAttachments(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	legacy, _, _, err := s.blobs.Get(ctx, cardKey(userID, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	result := &models.CardWithAttachments{CardRecord: c, Attachments: attachments}
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

	return result, nil
}

func (s *Store) downloadAttachments(ctx context.Context, userID, cardID string) ([]models.CardAttachment, error) {
	prefix := attachmentPrefix(userID, cardID)
	keys, err := s.blobs.ListKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var result []models.CardAttachment
	for _, key := range keys {
		blob, name, contentType, err := s.blobs.Get(ctx, key)
		if errors.Is(err, common.ErrNotFound) {
			continue // deleted between list and get
		}
		if err != nil {
			return nil, err
		}

		attachmentID := strings.TrimPrefix(key, prefix)
		if name == "" {
			name = attachmentID
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		result = append(result, models.CardAttachment{
			ID:          attachmentID,
			Name:        name,
			ContentType: contentType,
			Blob:        blob,
		})
	}
	return result, nil
}

// UpsertCard writes the row scoped to the owner, then applies the
// attachment lifecycle: the legacy slot is overwritten when ImageBlob is
// set, and a provided attachment set first purges every existing blob
// under the card's namespace prefix before uploading the new set.
func (s *Store) UpsertCard(ctx context.Context, in storage.UpsertCardInput) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	row, err := cardToRow(userID, in.Card)
	if err != nil {
		return err
	}

	query := `INSERT INTO cards (id, user_id, kind, title, issuer, expirydate, renewurl,
			profileid, renewalproviderid, notes, reminderdays, renewalsteps, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			title = EXCLUDED.title,
			issuer = EXCLUDED.issuer,
			expirydate = EXCLUDED.expirydate,
			renewurl = EXCLUDED.renewurl,
			profileid = EXCLUDED.profileid,
			renewalproviderid = EXCLUDED.renewalproviderid,
			notes = EXCLUDED.notes,
			reminderdays = EXCLUDED.reminderdays,
			renewalsteps = EXCLUDED.renewalsteps,
			updatedat = EXCLUDED.updatedat
		WHERE cards.user_id = EXCLUDED.user_id`
	if _, err := s.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.Kind, row.Title, row.Issuer, row.ExpiryDate, row.RenewURL,
		row.ProfileID, row.RenewalProviderID, row.Notes, row.ReminderDays, row.RenewalSteps,
		row.CreatedAt, row.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}

	if in.ImageBlob != nil {
		if err := s.blobs.Put(ctx, cardKey(userID, in.Card.ID), "", "application/octet-stream", in.ImageBlob); err != nil {
			return err
		}
	}

	if in.ReplaceAttachments {
		if err := s.blobs.DeletePrefix(ctx, attachmentPrefix(userID, in.Card.ID)); err != nil {
			return err
		}
		for _, a := range in.Attachments {
			contentType := a.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			if err := s.blobs.Put(ctx, attachmentKey(userID, in.Card.ID, a.ID), a.Name, contentType, a.Blob); err != nil {
				return err
			}
		}
	}

	return nil
}

// DeleteCard removes the row, the legacy image object and every attachment
// under the card's namespace prefix. Any failing step fails the delete as
// a whole; the card must never silently lose only part of its data.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cards WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if err := s.blobs.Delete(ctx, cardKey(userID, id)); err != nil {
		return err
	}
	return s.blobs.DeletePrefix(ctx, attachmentPrefix(userID, id))
}
