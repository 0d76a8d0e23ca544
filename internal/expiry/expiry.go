// Package expiry implements date-only expiry arithmetic for card records.
// Computations work on plain calendar dates; neither time-of-day nor the
// local UTC offset influences the result.
package expiry

import (
	"time"

	"github.com/dmitrijs2005/cardguard/internal/models"
)

// Status classifies a card's expiry relative to the reminder window.
type Status int

const (
	StatusOK Status = iota
	StatusExpiringSoon
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusExpired:
		return "expired"
	case StatusExpiringSoon:
		return "expiring soon"
	default:
		return "ok"
	}
}

// atMidnightUTC rebuilds a moment as its calendar date in UTC. Both
// endpoints of a day difference go through this, so DST transitions (23-
// or 25-hour local days) can never skew the count.
func atMidnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of whole calendar days from now until the
// given YYYY-MM-DD date. Today is 0, yesterday is -1.
func DaysUntil(ymd string, now time.Time) (int, error) {
	target, err := time.Parse(models.DateLayout, ymd)
	if err != nil {
		return 0, err
	}
	diff := atMidnightUTC(target).Sub(atMidnightUTC(now))
	return int(diff / (24 * time.Hour)), nil
}

// IsExpired reports whether the date lies strictly in the past.
func IsExpired(ymd string, now time.Time) bool {
	n, err := DaysUntil(ymd, now)
	return err == nil && n < 0
}

// Classify maps days-until-expiry onto a Status given the reminder window:
// negative is expired, 0..reminderDays inclusive is expiring soon.
func Classify(ymd string, reminderDays int, now time.Time) (Status, error) {
	n, err := DaysUntil(ymd, now)
	if err != nil {
		return StatusOK, err
	}
	switch {
	case n < 0:
		return StatusExpired, nil
	case n <= reminderDays:
		return StatusExpiringSoon, nil
	default:
		return StatusOK, nil
	}
}
