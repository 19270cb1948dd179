package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flowbot/internal/progression"
	"github.com/example/flowbot/pkg/models"
)

// StatsRepository handles database operations for daily statistics
type StatsRepository struct{}

// NewStatsRepository creates a new repository instance
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

// InitDay creates (or resets, on regeneration) the zeroed counter row for
// a freshly generated batch
func (r *StatsRepository) InitDay(ctx context.Context, userID int64, date string, totalTasks int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO daily_stats (user_id, stat_date, total_tasks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, stat_date) DO UPDATE SET
			total_tasks = EXCLUDED.total_tasks,
			completed_total = 0,
			completed_easy = 0,
			completed_standard = 0,
			completed_hard = 0,
			magic_completed = FALSE,
			flow_score = 0,
			productivity_index = 0,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := DB.ExecContext(ctx, query, userID, date, totalTasks, now, now); err != nil {
		return fmt.Errorf("failed to init daily stats: %v", err)
	}
	return nil
}

// GetByUserAndDate returns the counter row for the date
func (r *StatsRepository) GetByUserAndDate(ctx context.Context, userID int64, date string) (*models.DailyStats, error) {
	var stats models.DailyStats
	query := "SELECT * FROM daily_stats WHERE user_id = $1 AND stat_date = $2"
	err := DB.GetContext(ctx, &stats, query, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily stats for %d on %s: %w", userID, date, progression.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %v", err)
	}
	return &stats, nil
}

// UpdateCounters overwrites the counter row with values recomputed from the
// tasks table
func (r *StatsRepository) UpdateCounters(ctx context.Context, stats *models.DailyStats) error {
	query := `
		UPDATE daily_stats SET
			total_tasks = $1,
			completed_total = $2,
			completed_easy = $3,
			completed_standard = $4,
			completed_hard = $5,
			magic_completed = $6,
			flow_score = $7,
			productivity_index = $8,
			updated_at = $9
		WHERE user_id = $10 AND stat_date = $11
	`
	result, err := DB.ExecContext(ctx, query,
		stats.TotalTasks,
		stats.CompletedTotal,
		stats.CompletedEasy,
		stats.CompletedStandard,
		stats.CompletedHard,
		stats.MagicCompleted,
		stats.FlowScore,
		stats.ProductivityIndex,
		time.Now().UTC().Format(time.RFC3339),
		stats.UserID,
		stats.StatDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily stats: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("daily stats for %d on %s: %w", stats.UserID, stats.StatDate, progression.ErrNotFound)
	}
	return nil
}

// DeleteAllForUser removes every stats row of the user
func (r *StatsRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := DB.ExecContext(ctx, "DELETE FROM daily_stats WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete daily stats: %v", err)
	}
	return nil
}
