package models

// PersonalProfileName is the sentinel grouping cards fall back to when
// their ProfileID is unset or no longer resolves.
const PersonalProfileName = "Personal"

// Profile represents a person or dependent a card is attributed to.
// Cards reference it weakly: deleting a profile leaves its cards in place.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// RenewalProvider is a named renewal-link target with optional free-text
// search instructions. Same degrade-on-delete semantics as Profile.
type RenewalProvider struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	URL                string `json:"url"`
	SearchInstructions string `json:"searchInstructions,omitempty"`
	CreatedAt          int64  `json:"createdAt"`
}

// CardKind is a deduplicated vocabulary entry; the name is the key.
// The vocabulary is an open enumeration seeded with DefaultCardKinds.
type CardKind struct {
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// DefaultCardKinds is installed on first run of either engine.
var DefaultCardKinds = []string{
	"Passport",
	"National ID",
	"Driving License",
	"Credit Card",
	"Debit Card",
	"Insurance Card",
	"Membership Card",
	"Other",
}
