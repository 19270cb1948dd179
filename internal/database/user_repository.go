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

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByTelegramID returns a user by Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := DB.GetContext(ctx, &user, "SELECT * FROM users WHERE telegram_id = $1", telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", telegramID, progression.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// Create inserts a new user or updates the profile fields if the user exists
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if user.CreatedAt == "" {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (
			telegram_id, username, first_name, last_name, level,
			current_streak, longest_streak, onboarding_completed,
			notification_enabled, morning_hour, evening_hour, is_admin,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			updated_at = EXCLUDED.updated_at
	`
	_, err := DB.ExecContext(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Level,
		user.CurrentStreak,
		user.LongestStreak,
		user.OnboardingCompleted,
		user.NotificationEnabled,
		user.MorningHour,
		user.EveningHour,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := DB.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// GetUsersForMorningHour returns onboarded users whose task delivery hour
// matches the given hour and who have notifications enabled
func (r *UserRepository) GetUsersForMorningHour(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT * FROM users
		WHERE notification_enabled = TRUE AND onboarding_completed = TRUE AND morning_hour = $1
	`
	if err := DB.SelectContext(ctx, &users, query, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for morning hour: %v", err)
	}
	return users, nil
}

// GetUsersForEveningHour returns onboarded users whose summary hour matches
// the given hour and who have notifications enabled
func (r *UserRepository) GetUsersForEveningHour(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT * FROM users
		WHERE notification_enabled = TRUE AND onboarding_completed = TRUE AND evening_hour = $1
	`
	if err := DB.SelectContext(ctx, &users, query, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for evening hour: %v", err)
	}
	return users, nil
}

// UpdateLevel sets the user's program day counter
func (r *UserRepository) UpdateLevel(ctx context.Context, telegramID int64, level int) error {
	return r.exec(ctx, "UPDATE users SET level = $1, updated_at = $2 WHERE telegram_id = $3",
		level, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// UpdateStreakMirror keeps the streak fields on the users row in sync with
// the streak record
func (r *UserRepository) UpdateStreakMirror(ctx context.Context, telegramID int64, current, longest int) error {
	return r.exec(ctx, "UPDATE users SET current_streak = $1, longest_streak = $2, updated_at = $3 WHERE telegram_id = $4",
		current, longest, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// SetOnboardingCompleted flips the onboarding flag
func (r *UserRepository) SetOnboardingCompleted(ctx context.Context, telegramID int64, completed bool) error {
	return r.exec(ctx, "UPDATE users SET onboarding_completed = $1, updated_at = $2 WHERE telegram_id = $3",
		completed, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// SetNotificationsEnabled enables or disables scheduled messages for the user
func (r *UserRepository) SetNotificationsEnabled(ctx context.Context, telegramID int64, enabled bool) error {
	return r.exec(ctx, "UPDATE users SET notification_enabled = $1, updated_at = $2 WHERE telegram_id = $3",
		enabled, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// UpdateMorningHour sets the task delivery hour (0-23)
func (r *UserRepository) UpdateMorningHour(ctx context.Context, telegramID int64, hour int) error {
	return r.exec(ctx, "UPDATE users SET morning_hour = $1, updated_at = $2 WHERE telegram_id = $3",
		hour, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// UpdateEveningHour sets the summary hour (0-23)
func (r *UserRepository) UpdateEveningHour(ctx context.Context, telegramID int64, hour int) error {
	return r.exec(ctx, "UPDATE users SET evening_hour = $1, updated_at = $2 WHERE telegram_id = $3",
		hour, time.Now().UTC().Format(time.RFC3339), telegramID)
}

// ResetProgress returns the user to day 1 with onboarding cleared
func (r *UserRepository) ResetProgress(ctx context.Context, telegramID int64) error {
	return r.exec(ctx, `
		UPDATE users SET
			level = 1,
			current_streak = 0,
			longest_streak = 0,
			onboarding_completed = FALSE,
			updated_at = $1
		WHERE telegram_id = $2`,
		time.Now().UTC().Format(time.RFC3339), telegramID)
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("user: %w", progression.ErrNotFound)
	}
	return nil
}
