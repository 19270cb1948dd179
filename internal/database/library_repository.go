package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/pkg/models"
	"github.com/google/uuid"
)

// SharedLibraryUserID owns the templates importable by every user
const SharedLibraryUserID int64 = 0

// LibraryRepository handles database operations for user-authored task templates
type LibraryRepository struct{}

// NewLibraryRepository creates a new repository instance
func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{}
}

// Create inserts a new template, assigning a UUID when none is set
func (r *LibraryRepository) Create(ctx context.Context, task *models.LibraryTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt == "" {
		task.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if task.Category == "" {
		task.Category = "mental"
	}

	query := `
		INSERT INTO library_tasks (id, user_id, task_text, task_type, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := DB.ExecContext(ctx, query,
		task.ID, task.UserID, task.TaskText, task.TaskType, task.Category, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create library task: %v", err)
	}
	return nil
}

// GetByID returns a single template
func (r *LibraryRepository) GetByID(ctx context.Context, id string) (*models.LibraryTask, error) {
	var task models.LibraryTask
	err := DB.GetContext(ctx, &task, "SELECT * FROM library_tasks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("library task %s: %w", id, progression.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get library task: %v", err)
	}
	return &task, nil
}

// GetByUserID returns the user's own templates plus the shared ones
func (r *LibraryRepository) GetByUserID(ctx context.Context, userID int64) ([]models.LibraryTask, error) {
	var tasks []models.LibraryTask
	query := "SELECT * FROM library_tasks WHERE user_id IN ($1, $2) ORDER BY created_at DESC"
	if err := DB.SelectContext(ctx, &tasks, query, userID, SharedLibraryUserID); err != nil {
		return nil, fmt.Errorf("failed to get library tasks: %v", err)
	}
	return tasks, nil
}

// CountAll returns the total number of templates, for admin statistics
func (r *LibraryRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM library_tasks"); err != nil {
		return 0, fmt.Errorf("failed to count library tasks: %v", err)
	}
	return count, nil
}
