package models

// LibraryTask is a user-authored task template that can be placed
// into a day batch as a custom task
type LibraryTask struct {
	ID        string   `json:"id" db:"id"` // UUID
	UserID    int64    `json:"user_id" db:"user_id"`
	TaskText  string   `json:"task_text" db:"task_text"`
	TaskType  TaskType `json:"task_type" db:"task_type"`
	Category  string   `json:"category" db:"category"`
	CreatedAt string   `json:"created_at" db:"created_at"`
}
