package models

// AppSettings is the singleton preferences record, addressed by a fixed key
// and created lazily with defaults on first read.
type AppSettings struct {
	ReminderDays         int   `json:"reminderDays"`
	NotificationsEnabled bool  `json:"notificationsEnabled"`
	DefaultReminderDays  []int `json:"defaultReminderDays"`
}

// DefaultSettings returns the values a fresh install starts with.
func DefaultSettings() AppSettings {
	return AppSettings{
		ReminderDays:         30,
		NotificationsEnabled: false,
		DefaultReminderDays:  []int{30, 14, 7, 1},
	}
}
