package models

// TaskType is the difficulty tier of a task
type TaskType string

const (
	TaskTypeEasy     TaskType = "easy"
	TaskTypeStandard TaskType = "standard"
	TaskTypeHard     TaskType = "hard"
	TaskTypeMagic    TaskType = "magic"
)

// Valid reports whether the tier is one of the four known tiers
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeEasy, TaskTypeStandard, TaskTypeHard, TaskTypeMagic:
		return true
	}
	return false
}

// Task represents one entry of a user's day batch
type Task struct {
	ID           int64    `json:"id" db:"id"`
	UserID       int64    `json:"user_id" db:"user_id"`     // Telegram user ID
	TaskDate     string   `json:"task_date" db:"task_date"` // program-local date, YYYY-MM-DD
	TaskText     string   `json:"task_text" db:"task_text"`
	TaskType     TaskType `json:"task_type" db:"task_type"`
	Position     int      `json:"position" db:"position"` // ordinal within the day, 1-based
	Completed    bool     `json:"completed" db:"completed"`
	CompletedAt  *string  `json:"completed_at" db:"completed_at"`     // RFC3339, set only on completion
	IsCustom     bool     `json:"is_custom" db:"is_custom"`           // user-authored vs generated
	CustomTaskID *string  `json:"custom_task_id" db:"custom_task_id"` // link to library template
	CreatedAt    string   `json:"created_at" db:"created_at"`
}
