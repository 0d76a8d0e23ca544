// Package storage defines the backend-agnostic contract both CardGuard
// engines implement, and the single switch point that selects an engine at
// startup.
package storage

import (
	"context"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// UpsertCardInput is the write shape for a card.
//
// ImageBlob, when non-nil, is written to the legacy single-image slot
// without touching the attachments collection. When ReplaceAttachments is
// set, Attachments is authoritative: every previously stored attachment for
// the card is deleted before the new set is written (replace-wholesale,
// never merge). Callers that want to keep an attachment must re-submit it.
type UpsertCardInput struct {
	Card               models.CardRecord
	ImageBlob          []byte
	Attachments        []models.CardAttachment
	ReplaceAttachments bool
}

// Storage is the uniform interface over the local and remote engines. The
// concrete engine is chosen once at startup and never swapped mid-session.
//
// Read paths report a missing record as common.ErrNotFound; the remote
// engine additionally fails every call with common.ErrUnauthenticated when
// no session is available.
type Storage interface {
	GetSettings(ctx context.Context) (models.AppSettings, error)
	SaveSettings(ctx context.Context, s models.AppSettings) error

	ListCards(ctx context.Context) ([]models.CardRecord, error)
	GetCard(ctx context.Context, id string) (*models.CardWithAttachments, error)
	UpsertCard(ctx context.Context, in UpsertCardInput) error
	DeleteCard(ctx context.Context, id string) error

	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, name string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	ListRenewalProviders(ctx context.Context) ([]models.RenewalProvider, error)
	CreateRenewalProvider(ctx context.Context, name, url, searchInstructions string) (*models.RenewalProvider, error)
	DeleteRenewalProvider(ctx context.Context, id string) error

	ListCardKinds(ctx context.Context) ([]string, error)
	CreateCardKind(ctx context.Context, name string) error
	DeleteCardKind(ctx context.Context, name string) error

	// Reset destroys the entire store. Explicit, user-confirmed recovery
	// action only; it is never triggered automatically.
	Reset(ctx context.Context) error

	Close() error
}

// AvatarStore is the optional surface for profile avatar blobs. Only the
// remote engine implements it; the local engine keeps avatars as URLs.
type AvatarStore interface {
	SaveProfileAvatar(ctx context.Context, profileID, name, contentType string, blob []byte) (string, error)
	DeleteProfileAvatar(ctx context.Context, profileID string) error
}
