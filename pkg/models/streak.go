package models

// Streak tracks consecutive qualifying days for a user
type Streak struct {
	UserID            int64   `json:"user_id" db:"user_id"`
	CurrentStreak     int     `json:"current_streak" db:"current_streak"`
	LongestStreak     int     `json:"longest_streak" db:"longest_streak"`
	TotalDays         int     `json:"total_days" db:"total_days"`                   // cumulative qualifying days
	LastCompletedDate *string `json:"last_completed_date" db:"last_completed_date"` // YYYY-MM-DD
	CreatedAt         string  `json:"created_at" db:"created_at"`
	UpdatedAt         string  `json:"updated_at" db:"updated_at"`
}
