package models

// User represents a Telegram user going through the program
type User struct {
	TelegramID          int64  `json:"telegram_id" db:"telegram_id"`
	Username            string `json:"username" db:"username"`
	FirstName           string `json:"first_name" db:"first_name"`
	LastName            string `json:"last_name" db:"last_name"`
	Level               int    `json:"level" db:"level"` // program day counter, starts at 1
	CurrentStreak       int    `json:"current_streak" db:"current_streak"`
	LongestStreak       int    `json:"longest_streak" db:"longest_streak"`
	OnboardingCompleted bool   `json:"onboarding_completed" db:"onboarding_completed"`
	NotificationEnabled bool   `json:"notification_enabled" db:"notification_enabled"`
	MorningHour         int    `json:"morning_hour" db:"morning_hour"` // hour of day for task delivery (0-23)
	EveningHour         int    `json:"evening_hour" db:"evening_hour"` // hour of day for the summary (0-23)
	IsAdmin             bool   `json:"is_admin" db:"is_admin"`
	CreatedAt           string `json:"created_at" db:"created_at"`
	UpdatedAt           string `json:"updated_at" db:"updated_at"`
}
