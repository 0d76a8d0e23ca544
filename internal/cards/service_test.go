package cards

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/expiry"
	"github.com/dmitrijs2005/cardguard/internal/logging"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/security"
	"github.com/dmitrijs2005/cardguard/internal/storage"
	"github.com/dmitrijs2005/cardguard/internal/storage/local"
)

const testPIN = "2468"

func newTestService(t *testing.T) (*Service, storage.Storage, *security.Manager) {
	t.Helper()
	dir := t.TempDir()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	store, err := local.Open(context.Background(), filepath.Join(dir, "cards.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	lock, err := security.NewManager(security.NewFileConfigStore(filepath.Join(dir, "lock.json")))
	require.NoError(t, err)

	svc := NewService(store, lock, log)
	return svc, store, lock
}

func fixedNow(t *testing.T, svc *Service, ymd string) {
	t.Helper()
	now, err := time.Parse(models.DateLayout, ymd)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
}

func TestSave_RejectsMalformedExpiryDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Save(context.Background(), storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Passport", ExpiryDate: "15/06/2030"},
	})
	assert.ErrorIs(t, err, errInvalidExpiryDate)
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	svc, _, _ := newTestService(t)

	saved, err := svc.Save(context.Background(), storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Passport", Kind: "Passport", ExpiryDate: "2030-06-15"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NotZero(t, saved.CreatedAt)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
}

// With the lock enabled and unlocked, a plaintext note must be sealed
// before it reaches the engine; the stored form carries the envelope tag.
func TestSave_EncryptsNoteAtRest(t *testing.T) {
	svc, store, lock := newTestService(t)
	ctx := context.Background()

	require.NoError(t, lock.Setup(testPIN))
	require.NoError(t, lock.Unlock(testPIN))

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Visa", Kind: "Other", ExpiryDate: "2030-01-01", Notes: "PIN is 1234"},
	})
	require.NoError(t, err)

	raw, err := store.GetCard(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, security.IsEncryptedNote(raw.Notes))
	assert.NotContains(t, raw.Notes, "PIN is 1234")

	detail, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "PIN is 1234", detail.Notes)
	assert.False(t, detail.NoteLocked)
}

func TestSave_NoteNeedsUnlockWhenLockEnabled(t *testing.T) {
	svc, _, lock := newTestService(t)

	require.NoError(t, lock.Setup(testPIN))

	_, err := svc.Save(context.Background(), storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Visa", Kind: "Other", ExpiryDate: "2030-01-01", Notes: "secret"},
	})
	assert.ErrorIs(t, err, common.ErrLocked)
}

func TestSave_PlaintextNoteWhenLockDisabled(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Visa", Kind: "Other", ExpiryDate: "2030-01-01", Notes: "nothing secret"},
	})
	require.NoError(t, err)

	raw, err := store.GetCard(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "nothing secret", raw.Notes)
}

// An encrypted note read while locked is blanked and flagged, and a record
// whose envelope cannot be opened degrades alone: the rest of the list
// still comes back.
func TestList_DegradesUnreadableNotesPerRecord(t *testing.T) {
	svc, store, lock := newTestService(t)
	ctx := context.Background()

	require.NoError(t, lock.Setup(testPIN))
	require.NoError(t, lock.Unlock(testPIN))

	good, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Good", Kind: "Other", ExpiryDate: "2030-01-01", Notes: "readable"},
	})
	require.NoError(t, err)

	// A corrupted envelope simulates data written under a different PIN.
	bad := models.CardRecord{
		ID: models.NewID(), Title: "Bad", Kind: "Other", ExpiryDate: "2030-02-01",
		Notes:     security.NotePrefix + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		CreatedAt: models.NowMillis(), UpdatedAt: models.NowMillis(),
	}
	require.NoError(t, store.UpsertCard(ctx, storage.UpsertCardInput{Card: bad}))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]CardView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, "readable", byID[good.ID].Notes)
	assert.False(t, byID[good.ID].NoteLocked)
	assert.Empty(t, byID[bad.ID].Notes)
	assert.True(t, byID[bad.ID].NoteLocked)

	// Engage the lock: now every encrypted note is flagged, still no error.
	lock.Lock()
	views, err = svc.List(ctx)
	require.NoError(t, err)
	for _, v := range views {
		assert.Empty(t, v.Notes)
		assert.True(t, v.NoteLocked)
	}
}

// A card pointing at a deleted profile resolves to the default profile
// name instead of failing or showing a dangling id.
func TestList_DanglingProfileResolvesToDefault(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	p, err := store.CreateProfile(ctx, "Work")
	require.NoError(t, err)

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{Title: "Badge", Kind: "Other", ExpiryDate: "2030-01-01", ProfileID: p.ID},
	})
	require.NoError(t, err)

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Work", views[0].ProfileName)

	require.NoError(t, store.DeleteProfile(ctx, p.ID))

	views, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, saved.ID, views[0].ID)
	assert.Equal(t, models.PersonalProfileName, views[0].ProfileName)
}

func TestList_ClassifiesExpiry(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	fixedNow(t, svc, "2026-06-01")

	settings := models.DefaultSettings()
	settings.ReminderDays = 30
	require.NoError(t, svc.store.SaveSettings(ctx, settings))

	for _, c := range []struct {
		title, date string
	}{
		{"expired", "2026-05-20"},
		{"soon", "2026-06-20"},
		{"ok", "2026-12-01"},
	} {
		_, err := svc.Save(ctx, storage.UpsertCardInput{
			Card: models.CardRecord{Title: c.title, Kind: "Other", ExpiryDate: c.date},
		})
		require.NoError(t, err)
	}

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byTitle := map[string]CardView{}
	for _, v := range views {
		byTitle[v.Title] = v
	}
	assert.Equal(t, expiry.StatusExpired, byTitle["expired"].Status)
	assert.Equal(t, expiry.StatusExpiringSoon, byTitle["soon"].Status)
	assert.Equal(t, expiry.StatusOK, byTitle["ok"].Status)
	assert.Equal(t, -12, byTitle["expired"].DaysLeft)

	soonOnly, err := svc.ExpiringSoon(ctx)
	require.NoError(t, err)
	assert.Len(t, soonOnly, 2)
}

func TestReorderStep_SwapsNeighboursAndRenumbers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{
			Title: "Passport", Kind: "Passport", ExpiryDate: "2030-01-01",
			RenewalSteps: []models.RenewalStep{
				{ID: "s1", Title: "Book", Order: 0},
				{ID: "s2", Title: "Pay", Order: 1},
				{ID: "s3", Title: "Collect", Order: 2},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReorderStep(ctx, saved.ID, "s3", -1))

	detail, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, detail.RenewalSteps, 3)
	assert.Equal(t, []string{"s1", "s3", "s2"}, stepIDs(detail.RenewalSteps))
	for i, s := range detail.RenewalSteps {
		assert.Equal(t, i, s.Order)
	}

	// Out-of-range move is a no-op, not an error.
	require.NoError(t, svc.ReorderStep(ctx, saved.ID, "s1", -1))
	detail, err = svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3", "s2"}, stepIDs(detail.RenewalSteps))
}

func TestSetStepCompleted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{
			Title: "Passport", Kind: "Passport", ExpiryDate: "2030-01-01",
			RenewalSteps: []models.RenewalStep{{ID: "s1", Title: "Book", Order: 0}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStepCompleted(ctx, saved.ID, "s1", true))

	detail, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, detail.RenewalSteps[0].Completed)
}

// Reordering steps on a card with an encrypted note must not disturb the
// stored ciphertext, even while locked.
func TestReorderStep_PreservesCiphertextWhileLocked(t *testing.T) {
	svc, store, lock := newTestService(t)
	ctx := context.Background()

	require.NoError(t, lock.Setup(testPIN))
	require.NoError(t, lock.Unlock(testPIN))

	saved, err := svc.Save(ctx, storage.UpsertCardInput{
		Card: models.CardRecord{
			Title: "Passport", Kind: "Passport", ExpiryDate: "2030-01-01", Notes: "secret",
			RenewalSteps: []models.RenewalStep{
				{ID: "s1", Title: "Book", Order: 0},
				{ID: "s2", Title: "Pay", Order: 1},
			},
		},
	})
	require.NoError(t, err)

	raw, err := store.GetCard(ctx, saved.ID)
	require.NoError(t, err)
	sealed := raw.Notes

	lock.Lock()
	require.NoError(t, svc.ReorderStep(ctx, saved.ID, "s2", -1))

	raw, err = store.GetCard(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, sealed, raw.Notes)

	require.NoError(t, lock.Unlock(testPIN))
	detail, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", detail.Notes)
}

func stepIDs(steps []models.RenewalStep) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}
