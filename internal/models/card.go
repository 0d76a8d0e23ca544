// Package models defines the entities persisted by the CardGuard storage
// engines: tracked cards, their binary attachments, owner profiles, renewal
// providers, the card-kind vocabulary and application settings.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage format of CardRecord.ExpiryDate: a calendar
// date with no time-of-day or timezone component.
const DateLayout = "2006-01-02"

// CardRecord is one tracked document or payment instrument.
//
// ExpiryDate is always an ISO-8601 date string (YYYY-MM-DD). Kind is a soft
// reference into the card-kind vocabulary; ProfileID and RenewalProviderID
// are weak references that may dangle after the target is deleted.
// Notes may hold plaintext or a security.EncryptNote envelope.
type CardRecord struct {
	ID                string        `json:"id"`
	Kind              string        `json:"kind"`
	Title             string        `json:"title"`
	Issuer            string        `json:"issuer,omitempty"`
	ExpiryDate        string        `json:"expiryDate"`
	RenewURL          string        `json:"renewUrl,omitempty"`
	ProfileID         string        `json:"profileId,omitempty"`
	RenewalProviderID string        `json:"renewalProviderId,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	ReminderDays      []int         `json:"reminderDays,omitempty"`
	RenewalSteps      []RenewalStep `json:"renewalSteps,omitempty"`
	CreatedAt         int64         `json:"createdAt"`
	UpdatedAt         int64         `json:"updatedAt"`
}

// CardAttachment is a named binary blob owned by exactly one card.
// Its ID is unique within the owning record, not globally.
type CardAttachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Blob        []byte `json:"-"`
}

// CardWithAttachments is the read shape of a card: the record plus its
// resolved attachment set. When the record predates multi-attachment
// support, ImageBlob carries the legacy single image and Attachments holds
// a one-element list synthesized from it.
type CardWithAttachments struct {
	CardRecord
	ImageBlob   []byte
	Attachments []CardAttachment
}

// NewID returns a fresh globally unique identifier.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time in milliseconds since epoch, the
// timestamp unit used by CreatedAt/UpdatedAt.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// ValidExpiryDate reports whether s is a well-formed calendar date.
func ValidExpiryDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
