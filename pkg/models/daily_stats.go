package models

// DailyStats caches per-day completion counters and derived scores
type DailyStats struct {
	ID                int64  `json:"id" db:"id"`
	UserID            int64  `json:"user_id" db:"user_id"`
	StatDate          string `json:"stat_date" db:"stat_date"` // YYYY-MM-DD
	TotalTasks        int    `json:"total_tasks" db:"total_tasks"`
	CompletedTotal    int    `json:"completed_total" db:"completed_total"`
	CompletedEasy     int    `json:"completed_easy" db:"completed_easy"`
	CompletedStandard int    `json:"completed_standard" db:"completed_standard"`
	CompletedHard     int    `json:"completed_hard" db:"completed_hard"`
	MagicCompleted    bool   `json:"magic_completed" db:"magic_completed"`
	FlowScore         int    `json:"flow_score" db:"flow_score"`                 // completed/total as a rounded percentage
	ProductivityIndex int    `json:"productivity_index" db:"productivity_index"` // easy*1 + standard*2 + hard*3, +10 for magic
	CreatedAt         string `json:"created_at" db:"created_at"`
	UpdatedAt         string `json:"updated_at" db:"updated_at"`
}
