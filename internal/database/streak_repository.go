package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flowbot/pkg/models"
)

// StreakRepository handles database operations for streak records
type StreakRepository struct{}

// NewStreakRepository creates a new repository instance
func NewStreakRepository() *StreakRepository {
	return &StreakRepository{}
}

// GetByUserID returns the user's streak record, creating a zeroed one on
// first contact
func (r *StreakRepository) GetByUserID(ctx context.Context, userID int64) (*models.Streak, error) {
	var streak models.Streak
	err := DB.GetContext(ctx, &streak, "SELECT * FROM streaks WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Серии еще нет — создаем нулевую запись
		streak = models.Streak{UserID: userID}
		if err := r.Upsert(ctx, &streak); err != nil {
			return nil, fmt.Errorf("failed to create streak: %v", err)
		}
		return &streak, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %v", err)
	}
	return &streak, nil
}

// Upsert creates or updates the user's streak record
func (r *StreakRepository) Upsert(ctx context.Context, streak *models.Streak) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if streak.CreatedAt == "" {
		streak.CreatedAt = now
	}
	streak.UpdatedAt = now

	query := `
		INSERT INTO streaks (
			user_id, current_streak, longest_streak, total_days,
			last_completed_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			total_days = EXCLUDED.total_days,
			last_completed_date = EXCLUDED.last_completed_date,
			updated_at = EXCLUDED.updated_at
	`
	_, err := DB.ExecContext(ctx, query,
		streak.UserID,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.TotalDays,
		streak.LastCompletedDate,
		streak.CreatedAt,
		streak.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert streak: %v", err)
	}
	return nil
}

// Reset deletes the record and recreates it zeroed
func (r *StreakRepository) Reset(ctx context.Context, userID int64) error {
	if _, err := DB.ExecContext(ctx, "DELETE FROM streaks WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete streak: %v", err)
	}
	return r.Upsert(ctx, &models.Streak{UserID: userID})
}
