package progression

import (
	"testing"

	"github.com/example/flowbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestApplyStreakCredit(t *testing.T) {
	t.Run("first credit starts the streak", func(t *testing.T) {
		s := &models.Streak{}
		require.NoError(t, applyStreakCredit(s, "2025-03-01"))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 1, s.LongestStreak)
		assert.Equal(t, 1, s.TotalDays)
		require.NotNil(t, s.LastCompletedDate)
		assert.Equal(t, "2025-03-01", *s.LastCompletedDate)
	})

	t.Run("consecutive day extends the streak", func(t *testing.T) {
		s := &models.Streak{
			CurrentStreak:     3,
			LongestStreak:     3,
			TotalDays:         5,
			LastCompletedDate: strPtr("2025-03-01"),
		}
		require.NoError(t, applyStreakCredit(s, "2025-03-02"))

		assert.Equal(t, 4, s.CurrentStreak)
		assert.Equal(t, 4, s.LongestStreak)
		assert.Equal(t, 6, s.TotalDays)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		s := &models.Streak{
			CurrentStreak:     3,
			LongestStreak:     3,
			TotalDays:         5,
			LastCompletedDate: strPtr("2025-03-01"),
		}
		require.NoError(t, applyStreakCredit(s, "2025-03-01"))

		assert.Equal(t, 3, s.CurrentStreak)
		assert.Equal(t, 5, s.TotalDays)
	})

	t.Run("gap resets current streak to one", func(t *testing.T) {
		s := &models.Streak{
			CurrentStreak:     7,
			LongestStreak:     7,
			TotalDays:         10,
			LastCompletedDate: strPtr("2025-03-01"),
		}
		require.NoError(t, applyStreakCredit(s, "2025-03-05"))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 7, s.LongestStreak, "longest is a high-water mark")
		assert.Equal(t, 11, s.TotalDays, "total days counts every credit")
	})

	t.Run("month boundary counts as consecutive", func(t *testing.T) {
		s := &models.Streak{
			CurrentStreak:     1,
			LongestStreak:     1,
			TotalDays:         1,
			LastCompletedDate: strPtr("2025-02-28"),
		}
		require.NoError(t, applyStreakCredit(s, "2025-03-01"))
		assert.Equal(t, 2, s.CurrentStreak)
	})

	t.Run("unparseable date is rejected", func(t *testing.T) {
		s := &models.Streak{}
		assert.Error(t, applyStreakCredit(s, "01.03.2025"))
	})
}
