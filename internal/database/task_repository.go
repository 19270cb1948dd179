package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/pkg/models"
)

// TaskRepository handles database operations for day batches
type TaskRepository struct{}

// NewTaskRepository creates a new repository instance
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

// ReplaceBatch replaces the user's batch for the date inside one transaction.
// Delete and insert either both apply or neither does, so a failed insert can
// never leave the user without tasks for the day.
func (r *TaskRepository) ReplaceBatch(ctx context.Context, userID int64, date string, tasks []models.Task) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = $1 AND task_date = $2", userID, date); err != nil {
		return fmt.Errorf("failed to delete old batch: %v", err)
	}

	query := `
		INSERT INTO tasks (
			user_id, task_date, task_text, task_type, position,
			completed, completed_at, is_custom, custom_task_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, task := range tasks {
		_, err := tx.ExecContext(ctx, query,
			task.UserID,
			task.TaskDate,
			task.TaskText,
			task.TaskType,
			task.Position,
			task.Completed,
			task.CompletedAt,
			task.IsCustom,
			task.CustomTaskID,
			task.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %v", err)
	}
	return nil
}

// Insert adds a single task to an existing batch
func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			user_id, task_date, task_text, task_type, position,
			completed, completed_at, is_custom, custom_task_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if DB.DriverName() == "postgres" {
		return DB.QueryRowContext(ctx, query+" RETURNING id",
			task.UserID, task.TaskDate, task.TaskText, task.TaskType, task.Position,
			task.Completed, task.CompletedAt, task.IsCustom, task.CustomTaskID, task.CreatedAt,
		).Scan(&task.ID)
	}

	result, err := DB.ExecContext(ctx, query,
		task.UserID, task.TaskDate, task.TaskText, task.TaskType, task.Position,
		task.Completed, task.CompletedAt, task.IsCustom, task.CustomTaskID, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	task.ID = id
	return nil
}

// GetByID returns a single task
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := DB.GetContext(ctx, &task, "SELECT * FROM tasks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, progression.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %v", err)
	}
	return &task, nil
}

// GetForDay returns the user's batch for the date, ordered by position
func (r *TaskRepository) GetForDay(ctx context.Context, userID int64, date string) ([]models.Task, error) {
	var tasks []models.Task
	query := "SELECT * FROM tasks WHERE user_id = $1 AND task_date = $2 ORDER BY position ASC"
	if err := DB.SelectContext(ctx, &tasks, query, userID, date); err != nil {
		return nil, fmt.Errorf("failed to get day batch: %v", err)
	}
	return tasks, nil
}

// SetCompleted flips the completion flag. The WHERE guard on the current
// value makes a rapid double-tap a no-op instead of a double count.
func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, completed bool, completedAt string) (bool, error) {
	var result sql.Result
	var err error
	if completed {
		result, err = DB.ExecContext(ctx,
			"UPDATE tasks SET completed = TRUE, completed_at = $1 WHERE id = $2 AND completed = FALSE",
			completedAt, id)
	} else {
		result, err = DB.ExecContext(ctx,
			"UPDATE tasks SET completed = FALSE, completed_at = NULL WHERE id = $1 AND completed = TRUE",
			id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update task completion: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return rows > 0, nil
}

// DeleteAllForUser removes every task row of the user
func (r *TaskRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := DB.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete tasks: %v", err)
	}
	return nil
}
