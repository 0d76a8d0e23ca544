package expiry

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dmitrijs2005/cardguard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ymdFrom(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(models.DateLayout)
}

func TestDaysUntil(t *testing.T) {
	// Fixed afternoon timestamp: day math must ignore time of day.
	now := time.Date(2026, 3, 15, 16, 45, 12, 0, time.Local)

	tests := []struct {
		offset int
	}{
		{-1}, {0}, {1}, {30}, {31},
	}

	for _, tt := range tests {
		got, err := DaysUntil(ymdFrom(now, tt.offset), now)
		require.NoError(t, err)
		assert.Equal(t, tt.offset, got)
	}
}

// Day counts must hold across DST transitions, where a local day is 23 or
// 25 hours long. Truncating an hour-based division would read the
// spring-forward day as zero days away.
func TestDaysUntil_DSTTransitions(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2026-03-29: clocks jump forward, the day has 23 hours.
	springEve := time.Date(2026, 3, 29, 9, 0, 0, 0, berlin)
	got, err := DaysUntil("2026-03-30", springEve)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// 2026-10-25: clocks fall back, the day has 25 hours.
	fallEve := time.Date(2026, 10, 25, 9, 0, 0, 0, berlin)
	got, err = DaysUntil("2026-10-26", fallEve)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

// The window edge must stay exact when the span crosses a DST change: a
// card one day past the reminder window is OK, not expiring soon.
func TestClassify_BoundariesAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	const reminderDays = 30

	// 30 days ahead of 2026-03-15 crosses the March 29 spring-forward.
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, berlin)

	got, err := Classify(ymdFrom(now, reminderDays), reminderDays, now)
	require.NoError(t, err)
	assert.Equal(t, StatusExpiringSoon, got)

	got, err = Classify(ymdFrom(now, reminderDays+1), reminderDays, now)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, got)
}

func TestDaysUntil_InvalidDate(t *testing.T) {
	_, err := DaysUntil("not-a-date", time.Now())
	assert.Error(t, err)
}

func TestClassify_Boundaries(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.Local)
	const reminderDays = 30

	tests := []struct {
		name   string
		offset int
		want   Status
	}{
		{"yesterday is expired", -1, StatusExpired},
		{"today is expiring soon", 0, StatusExpiringSoon},
		{"window edge is expiring soon", reminderDays, StatusExpiringSoon},
		{"past the window is ok", reminderDays + 1, StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(ymdFrom(now, tt.offset), reminderDays, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 59, 0, 0, time.Local)
	assert.True(t, IsExpired(ymdFrom(now, -1), now))
	assert.False(t, IsExpired(ymdFrom(now, 0), now))
	assert.False(t, IsExpired(ymdFrom(now, 1), now))
}
