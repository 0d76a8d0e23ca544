// Package cards is the application service over the storage engine: it
// applies note encryption, expiry classification and profile resolution so
// that callers only ever see fully prepared view shapes.
package cards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardguard/internal/expiry"
	"github.com/dmitrijs2005/cardguard/internal/logging"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/security"
	"github.com/dmitrijs2005/cardguard/internal/storage"
)

var errInvalidExpiryDate = errors.New("expiry date must be YYYY-MM-DD")

// CardView is a card prepared for display: expiry classified against the
// reminder window, profile resolved to a name, note decrypted when the
// lock state allows it.
type CardView struct {
	models.CardRecord
	Status      expiry.Status
	DaysLeft    int
	ProfileName string

	// NoteLocked marks a note that exists but is not readable right now,
	// either because the lock is engaged or because decryption failed for
	// this record. The Notes field is blanked in that case.
	NoteLocked bool
}

// CardDetail is the full read shape: the view plus binary attachments.
type CardDetail struct {
	CardView
	ImageBlob   []byte
	Attachments []models.CardAttachment
}

// Service wires the storage engine to the security manager. One record
// failing to decrypt degrades that record only; the rest of the collection
// stays usable.
type Service struct {
	store storage.Storage
	lock  *security.Manager
	log   logging.Logger
	now   func() time.Time
}

func NewService(store storage.Storage, lock *security.Manager, log logging.Logger) *Service {
	return &Service{store: store, lock: lock, log: log, now: time.Now}
}

// List returns every card ordered by expiry date, classified and with
// profile names resolved.
func (s *Service) List(ctx context.Context) ([]CardView, error) {
	records, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	views := make([]CardView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.buildView(ctx, rec, settings.ReminderDays, names))
	}
	return views, nil
}

// Get returns one card with attachments, or common.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*CardDetail, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	return &CardDetail{
		CardView:    s.buildView(ctx, card.CardRecord, settings.ReminderDays, names),
		ImageBlob:   card.ImageBlob,
		Attachments: card.Attachments,
	}, nil
}

// buildView classifies expiry, resolves the profile name and prepares the
// note for display. A dangling or empty profile reference resolves to the
// default profile name.
func (s *Service) buildView(ctx context.Context, rec models.CardRecord, reminderDays int, profileNames map[string]string) CardView {
	v := CardView{CardRecord: rec, ProfileName: models.PersonalProfileName}
	if name, ok := profileNames[rec.ProfileID]; ok && rec.ProfileID != "" {
		v.ProfileName = name
	}

	now := s.now()
	if days, err := expiry.DaysUntil(rec.ExpiryDate, now); err == nil {
		v.DaysLeft = days
	} else {
		s.log.Warn(ctx, "card has malformed expiry date", "card_id", rec.ID)
	}
	if status, err := expiry.Classify(rec.ExpiryDate, reminderDays, now); err == nil {
		v.Status = status
	}

	v.Notes, v.NoteLocked = s.readableNote(ctx, rec.ID, rec.Notes)
	return v
}

// readableNote resolves a stored note for display. Legacy plaintext passes
// through. An encrypted note decrypts only while unlocked; a record whose
// envelope fails to open is degraded on its own, never the whole read.
func (s *Service) readableNote(ctx context.Context, cardID, stored string) (note string, locked bool) {
	if !security.IsEncryptedNote(stored) {
		return stored, false
	}

	key, err := s.lock.Key()
	if err != nil {
		return "", true
	}
	plaintext, err := security.DecryptNote(stored, key)
	if err != nil {
		s.log.Warn(ctx, "note decryption failed", "card_id", cardID, "error", err)
		return "", true
	}
	return plaintext, false
}

// Save validates and persists a card. The note arrives as plaintext; with
// the lock enabled it is sealed before it ever reaches the engine, which
// requires the unlocked state. A note already carrying the envelope tag is
// stored untouched so ciphertext survives round trips while locked.
func (s *Service) Save(ctx context.Context, in storage.UpsertCardInput) (*models.CardRecord, error) {
	if in.Card.Title == "" {
		return nil, errors.New("card title is required")
	}
	if !models.ValidExpiryDate(in.Card.ExpiryDate) {
		return nil, fmt.Errorf("%w: %q", errInvalidExpiryDate, in.Card.ExpiryDate)
	}

	now := s.now().UnixMilli()
	if in.Card.ID == "" {
		in.Card.ID = models.NewID()
		in.Card.CreatedAt = now
	}
	if in.Card.CreatedAt == 0 {
		in.Card.CreatedAt = now
	}
	in.Card.UpdatedAt = now
	in.Card.RenewalSteps = models.NormalizeSteps(in.Card.RenewalSteps)

	if in.Card.Notes != "" && !security.IsEncryptedNote(in.Card.Notes) && s.lock.Enabled() {
		key, err := s.lock.Key()
		if err != nil {
			return nil, err
		}
		sealed, err := security.EncryptNote(in.Card.Notes, key)
		if err != nil {
			return nil, err
		}
		in.Card.Notes = sealed
	}

	if err := s.store.UpsertCard(ctx, in); err != nil {
		return nil, err
	}
	return &in.Card, nil
}

// Delete removes the card and everything attached to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCard(ctx, id)
}

// ReorderStep moves one renewal step up (delta -1) or down (delta +1)
// within the card's checklist. The stored note travels through unchanged,
// so reordering works regardless of lock state.
func (s *Service) ReorderStep(ctx context.Context, cardID, stepID string, delta int) error {
	return s.updateSteps(ctx, cardID, func(steps []models.RenewalStep) []models.RenewalStep {
		return models.MoveStep(steps, stepID, delta)
	})
}

// SetStepCompleted toggles one renewal step's completion flag.
func (s *Service) SetStepCompleted(ctx context.Context, cardID, stepID string, completed bool) error {
	return s.updateSteps(ctx, cardID, func(steps []models.RenewalStep) []models.RenewalStep {
		for i := range steps {
			if steps[i].ID == stepID {
				steps[i].Completed = completed
			}
		}
		return steps
	})
}

func (s *Service) updateSteps(ctx context.Context, cardID string, mutate func([]models.RenewalStep) []models.RenewalStep) error {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}

	rec := card.CardRecord
	rec.RenewalSteps = mutate(rec.RenewalSteps)
	rec.UpdatedAt = s.now().UnixMilli()
	return s.store.UpsertCard(ctx, storage.UpsertCardInput{Card: rec})
}

// ExpiringSoon filters the card list down to records inside the reminder
// window or already past it, for the reminder surface.
func (s *Service) ExpiringSoon(ctx context.Context) ([]CardView, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []CardView
	for _, v := range views {
		if v.Status != expiry.StatusOK {
			result = append(result, v)
		}
	}
	return result, nil
}
