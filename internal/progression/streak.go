package progression

import (
	"fmt"
	"time"

	"github.com/example/flowbot/pkg/models"
)

// DateLayout is the program-local calendar date format used across the store
const DateLayout = "2006-01-02"

// applyStreakCredit mutates the streak record for a newly qualifying day.
// A day exactly one calendar day after the last qualifying day extends the
// streak; the same day is a no-op; any gap resets the current streak to 1
// (not 0). The cumulative counter increments on every credit and the longest
// streak is a high-water mark.
func applyStreakCredit(s *models.Streak, date string) error {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("failed to parse completion date %q: %w", date, err)
	}

	if s.LastCompletedDate == nil {
		s.CurrentStreak = 1
	} else {
		last, err := time.Parse(DateLayout, *s.LastCompletedDate)
		if err != nil {
			return fmt.Errorf("failed to parse last completed date %q: %w", *s.LastCompletedDate, err)
		}
		switch daysBetween(last, day) {
		case 0:
			return nil // день уже засчитан
		case 1:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}

	s.TotalDays++
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	d := date
	s.LastCompletedDate = &d
	return nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
