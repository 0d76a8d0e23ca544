package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/cardguard/internal/auth"
	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/dmitrijs2005/cardguard/internal/storage"
)

type deniedSessions struct{}

func (deniedSessions) Session(ctx context.Context) (*auth.Session, error) {
	return nil, common.ErrUnauthenticated
}

// Every operation must refuse to run without a session, before touching
// the database or the bucket. The store below has neither, so reaching
// them would panic instead of returning cleanly.
func TestStore_AllOperationsRequireSession(t *testing.T) {
	s := &Store{sessions: deniedSessions{}}
	ctx := context.Background()

	ops := map[string]func() error{
		"GetSettings":  func() error { _, err := s.GetSettings(ctx); return err },
		"SaveSettings": func() error { return s.SaveSettings(ctx, models.DefaultSettings()) },
		"ListCards":    func() error { _, err := s.ListCards(ctx); return err },
		"GetCard":      func() error { _, err := s.GetCard(ctx, "c1"); return err },
		"UpsertCard": func() error {
			return s.UpsertCard(ctx, storage.UpsertCardInput{Card: models.CardRecord{ID: "c1"}})
		},
		"DeleteCard":    func() error { return s.DeleteCard(ctx, "c1") },
		"ListProfiles":  func() error { _, err := s.ListProfiles(ctx); return err },
		"CreateProfile": func() error { _, err := s.CreateProfile(ctx, "Alice"); return err },
		"UpdateProfile": func() error { return s.UpdateProfile(ctx, models.Profile{ID: "p1"}) },
		"DeleteProfile": func() error { return s.DeleteProfile(ctx, "p1") },
		"ListRenewalProviders": func() error {
			_, err := s.ListRenewalProviders(ctx)
			return err
		},
		"CreateRenewalProvider": func() error {
			_, err := s.CreateRenewalProvider(ctx, "n", "u", "")
			return err
		},
		"DeleteRenewalProvider": func() error { return s.DeleteRenewalProvider(ctx, "rp1") },
		"ListCardKinds":         func() error { _, err := s.ListCardKinds(ctx); return err },
		"CreateCardKind":        func() error { return s.CreateCardKind(ctx, "Visa") },
		"DeleteCardKind":        func() error { return s.DeleteCardKind(ctx, "Visa") },
		"SaveProfileAvatar": func() error {
			_, err := s.SaveProfileAvatar(ctx, "p1", "a.png", "image/png", []byte{1})
			return err
		},
		"DeleteProfileAvatar": func() error { return s.DeleteProfileAvatar(ctx, "p1") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), common.ErrUnauthenticated)
		})
	}
}

func TestBlobKeys(t *testing.T) {
	assert.Equal(t, "cards/u1/c1", cardKey("u1", "c1"))
	assert.Equal(t, "cards/u1/c1/a1", attachmentKey("u1", "c1", "a1"))
	assert.Equal(t, "cards/u1/c1/", attachmentPrefix("u1", "c1"))
	assert.Equal(t, "avatars/p1/", avatarPrefix("p1"))
}
